package service

import (
	"context"
	"testing"
	"time"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemAnalyticsCompletionRates(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, pod, stage := seedHierarchy(t, repos)
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db))

	progressSvc := newProgressService(repos)
	_, err := progressSvc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	_, err = progressSvc.StartStage("user-2", pod.ID, stage.ID)
	require.NoError(t, err)

	// user-1 完成其 problem attempt
	attempt, err := repos.attempt.FindActiveProblemAttempt("user-1", problem.ID)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	now := time.Now()
	attempt.Status = model.AttemptCompleted
	attempt.CompletedAt = &now
	require.NoError(t, repos.attempt.SaveProblemAttempt(attempt))

	result, err := svc.ProblemAnalytics(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.TotalProblems)
	assert.EqualValues(t, 1, result.PublicProblems)
	assert.EqualValues(t, 0, result.PrivateProblems)
	assert.EqualValues(t, 1, result.DifficultyDistribution["intermediate"])

	require.Len(t, result.CompletionRates, 1)
	stat := result.CompletionRates[0]
	assert.Equal(t, problem.ID, stat.ProblemID)
	assert.Equal(t, "build-a-cache", stat.ProblemSlug)
	assert.EqualValues(t, 2, stat.TotalAttempts)
	assert.EqualValues(t, 1, stat.CompletedAttempts)
	assert.InDelta(t, 50.0, stat.CompletionRate, 0.01)
}

func TestUserAnalytics(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db))
	profiles := NewProfileService(repos.profile)

	created, err := profiles.UpsertOwn("user-1", ProfileInput{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = profiles.UpsertOwn("user-2", ProfileInput{Email: "b@example.com"})
	require.NoError(t, err)
	_, err = profiles.UpdateSubscription(created.ID, model.TierPro)
	require.NoError(t, err)

	result, err := svc.UserAnalytics(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, result.TotalUsers)
	assert.EqualValues(t, 2, result.ActiveUsers.Last7Days)
	assert.EqualValues(t, 1, result.TierDistribution["pro"])
	assert.EqualValues(t, 1, result.TierDistribution["free"])
	require.Len(t, result.UserGrowth, 1)
	assert.Equal(t, time.Now().Format("2006-01"), result.UserGrowth[0].Month)
	assert.EqualValues(t, 2, result.UserGrowth[0].Count)
}

func TestStageAnalytics(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db))

	progressSvc := newProgressService(repos)
	_, err := progressSvc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	score := 80
	_, err = progressSvc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{AssessmentScore: &score})
	require.NoError(t, err)

	result, err := svc.StageAnalytics(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.TotalStages)
	assert.EqualValues(t, 1, result.TypeDistribution["practice"])
	require.Len(t, result.AssessmentScores, 1)

	stat := result.AssessmentScores[0]
	assert.Equal(t, stage.ID, stat.StageID)
	assert.EqualValues(t, 1, stat.TotalAttempts)
	assert.EqualValues(t, 1, stat.CompletedAttempts)
	assert.InDelta(t, 100.0, stat.CompletionRate, 0.01)
	assert.InDelta(t, 80.0, stat.AvgAssessmentScore, 0.01)
}

func TestProgressAnalyticsRates(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, _, _ := seedHierarchy(t, repos)
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(db))

	started := time.Now().Add(-2 * time.Hour)
	completed := time.Now()
	done := &model.ProblemAttempt{
		UserID:      "user-1",
		ProblemID:   problem.ID,
		Status:      model.AttemptCompleted,
		StartedAt:   started,
		CompletedAt: &completed,
	}
	require.NoError(t, repos.attempt.CreateProblemAttempt(done))
	require.NoError(t, repos.attempt.CreateProblemAttempt(&model.ProblemAttempt{
		UserID:    "user-2",
		ProblemID: problem.ID,
		Status:    model.AttemptActive,
		StartedAt: time.Now(),
	}))
	require.NoError(t, repos.attempt.CreateProblemAttempt(&model.ProblemAttempt{
		UserID:    "user-3",
		ProblemID: problem.ID,
		Status:    model.AttemptAbandoned,
		StartedAt: time.Now(),
	}))

	result, err := svc.ProgressAnalytics(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 33.33, result.CompletionRate, 0.5)
	assert.InDelta(t, 33.33, result.AbandonmentRate, 0.5)
	assert.EqualValues(t, 1, result.ActiveAttempts)
	assert.EqualValues(t, 1, result.AbandonedAttempts)
	assert.InDelta(t, 2.0, result.AvgCompletionTime, 0.1)
}
