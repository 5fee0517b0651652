package service

import (
	"context"
	"time"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

// AnalyticsService 仪表盘聚合。一个响应里的多条独立查询用 errgroup 并发执行。
type AnalyticsService struct {
	Repo *repository.AnalyticsRepository
}

func NewAnalyticsService(repo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{Repo: repo}
}

func (s *AnalyticsService) UserAnalytics(ctx context.Context) (*model.UserAnalytics, error) {
	var result model.UserAnalytics
	now := time.Now()

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.TotalUsers, err = s.Repo.CountUsers()
		return err
	})
	g.Go(func() error {
		var err error
		result.ActiveUsers.Last7Days, err = s.Repo.CountUsersActiveSince(now.AddDate(0, 0, -7))
		return err
	})
	g.Go(func() error {
		var err error
		result.ActiveUsers.Last30Days, err = s.Repo.CountUsersActiveSince(now.AddDate(0, 0, -30))
		return err
	})
	g.Go(func() error {
		var err error
		result.UserGrowth, err = s.Repo.UserGrowth(12)
		return err
	})
	g.Go(func() error {
		var err error
		result.TierDistribution, err = s.Repo.TierDistribution()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if result.UserGrowth == nil {
		result.UserGrowth = []model.MonthlyCount{}
	}
	return &result, nil
}

func (s *AnalyticsService) ProblemAnalytics(ctx context.Context) (*model.ProblemAnalytics, error) {
	var result model.ProblemAnalytics

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.TotalProblems, err = s.Repo.CountProblems()
		return err
	})
	g.Go(func() error {
		var err error
		result.PublicProblems, err = s.Repo.CountPublicProblems()
		return err
	})
	g.Go(func() error {
		var err error
		result.DifficultyDistribution, err = s.Repo.DifficultyDistribution()
		return err
	})
	g.Go(func() error {
		var err error
		result.CompletionRates, err = s.Repo.ProblemCompletionStats()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.PrivateProblems = result.TotalProblems - result.PublicProblems
	if result.CompletionRates == nil {
		result.CompletionRates = []model.ProblemCompletionStat{}
	}
	return &result, nil
}

func (s *AnalyticsService) PodAnalytics(ctx context.Context) (*model.PodAnalytics, error) {
	var result model.PodAnalytics

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.TotalPods, err = s.Repo.CountPods()
		return err
	})
	g.Go(func() error {
		var err error
		result.PhaseDistribution, err = s.Repo.PhaseDistribution()
		return err
	})
	g.Go(func() error {
		var err error
		result.CompletionRates, err = s.Repo.PodAttemptStats()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 全局平均耗时取各 Pod 平均值的加权平均
	var weighted float64
	var completed int64
	for _, stat := range result.CompletionRates {
		weighted += stat.AvgTimeSpent * float64(stat.CompletedAttempts)
		completed += stat.CompletedAttempts
	}
	if completed > 0 {
		result.AvgTimeSpent = weighted / float64(completed)
	}
	if result.CompletionRates == nil {
		result.CompletionRates = []model.PodAttemptStat{}
	}
	return &result, nil
}

func (s *AnalyticsService) StageAnalytics(ctx context.Context) (*model.StageAnalytics, error) {
	var result model.StageAnalytics

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.TotalStages, err = s.Repo.CountStages()
		return err
	})
	g.Go(func() error {
		var err error
		result.TypeDistribution, err = s.Repo.TypeDistribution()
		return err
	})
	g.Go(func() error {
		var err error
		result.AssessmentScores, err = s.Repo.StageProgressStats()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if result.AssessmentScores == nil {
		result.AssessmentScores = []model.StageStat{}
	}
	return &result, nil
}

func (s *AnalyticsService) ProgressAnalytics(ctx context.Context) (*model.ProgressAnalytics, error) {
	var result model.ProgressAnalytics
	var total, completedCount int64

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.Repo.CountProblemAttempts()
		return err
	})
	g.Go(func() error {
		var err error
		completedCount, err = s.Repo.CountProblemAttemptsByStatus(model.AttemptCompleted)
		return err
	})
	g.Go(func() error {
		var err error
		result.ActiveAttempts, err = s.Repo.CountProblemAttemptsByStatus(model.AttemptActive)
		return err
	})
	g.Go(func() error {
		var err error
		result.AbandonedAttempts, err = s.Repo.CountProblemAttemptsByStatus(model.AttemptAbandoned)
		return err
	})
	g.Go(func() error {
		var err error
		result.AvgCompletionTime, err = s.Repo.AvgProblemCompletionHours()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if total > 0 {
		result.CompletionRate = float64(completedCount) / float64(total) * 100
		result.AbandonmentRate = float64(result.AbandonedAttempts) / float64(total) * 100
	}
	return &result, nil
}
