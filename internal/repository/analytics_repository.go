package repository

import (
	"time"

	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

// AnalyticsRepository 仪表盘用的只读聚合查询。
// 时间差的平均值在 Go 侧计算，保证 MySQL 和测试用的 sqlite 行为一致。
type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

type labelCount struct {
	Label string
	Count int64
}

type attemptGroup struct {
	GroupID   string
	Total     int64
	Completed int64
}

func (r *AnalyticsRepository) CountUsers() (int64, error) {
	var n int64
	err := r.DB.Model(&model.UserProfile{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountUsersActiveSince(t time.Time) (int64, error) {
	var n int64
	err := r.DB.Model(&model.UserProfile{}).Where("updated_at >= ?", t).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) TierDistribution() (map[string]int64, error) {
	var rows []labelCount
	err := r.DB.Model(&model.UserProfile{}).
		Select("subscription_tier AS label, COUNT(*) AS count").
		Group("subscription_tier").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDistribution(rows), nil
}

// UserGrowth 最近 months 个月的注册量。月份分桶在 Go 侧完成。
func (r *AnalyticsRepository) UserGrowth(months int) ([]model.MonthlyCount, error) {
	since := time.Now().AddDate(0, -months, 0)
	var createdAts []time.Time
	err := r.DB.Model(&model.UserProfile{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &createdAts).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	var order []string
	for _, t := range createdAts {
		month := t.Format("2006-01")
		if _, seen := counts[month]; !seen {
			order = append(order, month)
		}
		counts[month]++
	}

	growth := make([]model.MonthlyCount, 0, len(order))
	for _, month := range order {
		growth = append(growth, model.MonthlyCount{Month: month, Count: counts[month]})
	}
	return growth, nil
}

func (r *AnalyticsRepository) CountProblems() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Problem{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountPublicProblems() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Problem{}).Where("is_public = ?", true).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) DifficultyDistribution() (map[string]int64, error) {
	var rows []labelCount
	err := r.DB.Model(&model.Problem{}).
		Select("difficulty AS label, COUNT(*) AS count").
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDistribution(rows), nil
}

// ProblemCompletionStats 按 Problem 分组的尝试数与完成率
func (r *AnalyticsRepository) ProblemCompletionStats() ([]model.ProblemCompletionStat, error) {
	var groups []attemptGroup
	err := r.DB.Model(&model.ProblemAttempt{}).
		Select("problem_id AS group_id, COUNT(*) AS total, SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed").
		Group("problem_id").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.GroupID)
	}
	var problems []model.Problem
	if err := r.DB.Where("id IN ?", ids).Find(&problems).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Problem, len(problems))
	for i := range problems {
		byID[problems[i].ID] = &problems[i]
	}

	stats := make([]model.ProblemCompletionStat, 0, len(groups))
	for _, g := range groups {
		stat := model.ProblemCompletionStat{
			ProblemID:         g.GroupID,
			TotalAttempts:     g.Total,
			CompletedAttempts: g.Completed,
			CompletionRate:    rate(g.Completed, g.Total),
		}
		if p, ok := byID[g.GroupID]; ok {
			stat.ProblemSlug = p.Slug
			stat.ProblemTitle = p.Title
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (r *AnalyticsRepository) CountPods() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Pod{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) PhaseDistribution() (map[string]int64, error) {
	var rows []labelCount
	err := r.DB.Model(&model.Pod{}).
		Select("phase AS label, COUNT(*) AS count").
		Group("phase").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDistribution(rows), nil
}

// PodAttemptStats 按 Pod 分组的尝试统计，平均耗时取完成记录的 completedAt-startedAt
func (r *AnalyticsRepository) PodAttemptStats() ([]model.PodAttemptStat, error) {
	var groups []attemptGroup
	err := r.DB.Model(&model.PodAttempt{}).
		Select("pod_id AS group_id, COUNT(*) AS total, SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed").
		Group("pod_id").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}

	var completedAttempts []model.PodAttempt
	if err := r.DB.
		Where("status = ? AND completed_at IS NOT NULL", model.AttemptCompleted).
		Find(&completedAttempts).Error; err != nil {
		return nil, err
	}
	durSum := make(map[string]float64)
	durCount := make(map[string]int64)
	for _, a := range completedAttempts {
		durSum[a.PodID] += a.CompletedAt.Sub(a.StartedAt).Minutes()
		durCount[a.PodID]++
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.GroupID)
	}
	var pods []model.Pod
	if err := r.DB.Where("id IN ?", ids).Find(&pods).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Pod, len(pods))
	for i := range pods {
		byID[pods[i].ID] = &pods[i]
	}

	stats := make([]model.PodAttemptStat, 0, len(groups))
	for _, g := range groups {
		stat := model.PodAttemptStat{
			PodID:             g.GroupID,
			TotalAttempts:     g.Total,
			CompletedAttempts: g.Completed,
			CompletionRate:    rate(g.Completed, g.Total),
		}
		if n := durCount[g.GroupID]; n > 0 {
			stat.AvgTimeSpent = round2(durSum[g.GroupID] / float64(n))
		}
		if p, ok := byID[g.GroupID]; ok {
			stat.PodTitle = p.Title
			stat.PodPhase = string(p.Phase)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (r *AnalyticsRepository) CountStages() (int64, error) {
	var n int64
	err := r.DB.Model(&model.PodStage{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) TypeDistribution() (map[string]int64, error) {
	var rows []labelCount
	err := r.DB.Model(&model.PodStage{}).
		Select("type AS label, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDistribution(rows), nil
}

// StageProgressStats 按 Stage 分组的进度统计
func (r *AnalyticsRepository) StageProgressStats() ([]model.StageStat, error) {
	type stageGroup struct {
		GroupID   string
		Total     int64
		Completed int64
		AvgScore  float64
		AvgTime   float64
	}
	var groups []stageGroup
	err := r.DB.Model(&model.UserStageProgress{}).
		Select("stage_id AS group_id, COUNT(*) AS total, " +
			"SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed, " +
			"COALESCE(AVG(assessment_score), 0) AS avg_score, " +
			"COALESCE(AVG(time_spent), 0) AS avg_time").
		Group("stage_id").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.GroupID)
	}
	var stages []model.PodStage
	if err := r.DB.Where("id IN ?", ids).Find(&stages).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.PodStage, len(stages))
	for i := range stages {
		byID[stages[i].ID] = &stages[i]
	}

	stats := make([]model.StageStat, 0, len(groups))
	for _, g := range groups {
		stat := model.StageStat{
			StageID:            g.GroupID,
			TotalAttempts:      g.Total,
			CompletedAttempts:  g.Completed,
			CompletionRate:     rate(g.Completed, g.Total),
			AvgAssessmentScore: round2(g.AvgScore),
			AvgTimeSpent:       round2(g.AvgTime),
		}
		if s, ok := byID[g.GroupID]; ok {
			stat.StageTitle = s.Title
			stat.StageType = string(s.Type)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (r *AnalyticsRepository) CountProblemAttempts() (int64, error) {
	var n int64
	err := r.DB.Model(&model.ProblemAttempt{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountProblemAttemptsByStatus(status model.AttemptStatus) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ProblemAttempt{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// AvgProblemCompletionHours 已完成 Problem attempt 的平均耗时（小时）
func (r *AnalyticsRepository) AvgProblemCompletionHours() (float64, error) {
	var attempts []model.ProblemAttempt
	err := r.DB.
		Where("status = ? AND completed_at IS NOT NULL", model.AttemptCompleted).
		Find(&attempts).Error
	if err != nil {
		return 0, err
	}
	if len(attempts) == 0 {
		return 0, nil
	}
	var sum float64
	for _, a := range attempts {
		sum += a.CompletedAt.Sub(a.StartedAt).Hours()
	}
	return round2(sum / float64(len(attempts))), nil
}

func toDistribution(rows []labelCount) map[string]int64 {
	dist := make(map[string]int64, len(rows))
	for _, row := range rows {
		dist[row.Label] = row.Count
	}
	return dist
}

func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
