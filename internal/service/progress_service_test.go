package service

import (
	"testing"

	"podlab_backend/internal/model"
	"podlab_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStageCreatesAttemptChain(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	progress, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StageInProgress, progress.Status)
	require.NotNil(t, progress.StartedAt)

	problemAttempt, err := repos.attempt.FindActiveProblemAttempt("user-1", pod.ProblemID)
	require.NoError(t, err)
	require.NotNil(t, problemAttempt)
	assert.Equal(t, model.AttemptActive, problemAttempt.Status)

	podAttempt, err := repos.attempt.FindActivePodAttempt("user-1", pod.ID)
	require.NoError(t, err)
	require.NotNil(t, podAttempt)
	assert.Equal(t, problemAttempt.ID, podAttempt.ProblemAttemptID)
	assert.Equal(t, podAttempt.ID, progress.PodAttemptID)
}

func TestStartStageIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	first, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	second, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.StageInProgress, second.Status)
	assert.True(t, first.StartedAt.Equal(*second.StartedAt), "startedAt must not change on repeated start")

	var count int64
	require.NoError(t, db.Model(&model.UserStageProgress{}).
		Where("user_id = ? AND stage_id = ?", "user-1", stage.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStartStageReusesActivePodAttempt(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)

	second := &model.PodStage{
		PodID: pod.ID,
		Title: "Read the references",
		Order: 2,
		Type:  model.StageResources,
	}
	require.NoError(t, repos.stage.Create(second))

	svc := newProgressService(repos)

	p1, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	p2, err := svc.StartStage("user-1", pod.ID, second.ID)
	require.NoError(t, err)

	assert.Equal(t, p1.PodAttemptID, p2.PodAttemptID)

	var count int64
	require.NoError(t, db.Model(&model.PodAttempt{}).
		Where("user_id = ? AND pod_id = ?", "user-1", pod.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStartStageUnknownStage(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, _ := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, "missing")
	assert.ErrorIs(t, err, util.ErrStageNotFound)

	// 校验失败时不应留下任何 attempt
	attempt, err := repos.attempt.FindActiveProblemAttempt("user-1", pod.ProblemID)
	require.NoError(t, err)
	assert.Nil(t, attempt)
}

func TestCompleteStageRequiresPriorStart(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{})
	assert.ErrorIs(t, err, util.ErrStageProgressNotFound)
}

func TestCompleteStageMergesScoreAndNotes(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	score := 90
	notes := "went well"
	progress, err := svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{
		AssessmentScore: &score,
		Notes:           &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StageCompleted, progress.Status)
	require.NotNil(t, progress.CompletedAt)
	require.NotNil(t, progress.AssessmentScore)
	assert.Equal(t, 90, *progress.AssessmentScore)
	assert.Equal(t, "went well", progress.Notes)
}

func TestUpdateProgressPartialMerge(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	timeSpent := 25
	progress, err := svc.UpdateProgress("user-1", pod.ID, stage.ID, ProgressUpdateInput{
		TimeSpent:       &timeSpent,
		ResourcesViewed: []string{"res-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 25, progress.TimeSpent)
	assert.Equal(t, []string{"res-1"}, progress.ResourcesViewed)
	assert.Equal(t, model.StageInProgress, progress.Status, "status is never touched by progress updates")
	require.NotNil(t, progress.LastAccessedAt)

	// 未提供的字段保持不变
	progress, err = svc.UpdateProgress("user-1", pod.ID, stage.ID, ProgressUpdateInput{
		CaseStudiesViewed: []string{"cs-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, progress.TimeSpent)
	assert.Equal(t, []string{"cs-1"}, progress.CaseStudiesViewed)
}

func TestUpdateProgressWithoutRecord(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.UpdateProgress("user-1", pod.ID, stage.ID, ProgressUpdateInput{})
	assert.ErrorIs(t, err, util.ErrStageProgressNotFound)
}

func TestSubmitPracticeCorrectAnswer(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	result, err := svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID:  "pp-1",
		UserAnswer: "  42 ",
	})
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Equal(t, "42", result.Solution)
	assert.Equal(t, "Correct answer!", result.Message)
}

func TestSubmitPracticeIncorrectAnswerHidesSolution(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	result, err := svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID:  "pp-1",
		UserAnswer: "41",
	})
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Empty(t, result.Solution)
	assert.Equal(t, "Incorrect answer. Try again!", result.Message)
}

func TestSubmitPracticeIncrementsAttempts(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	_, err = svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "pp-1", UserAnswer: "wrong",
	})
	require.NoError(t, err)
	_, err = svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "pp-1", UserAnswer: "42",
	})
	require.NoError(t, err)

	progress, err := repos.progress.FindByUserAndStage("user-1", stage.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Len(t, progress.PracticeProblemAttempts, 1)

	attempt := progress.PracticeProblemAttempts[0]
	assert.Equal(t, 2, attempt.Attempts)
	assert.Equal(t, "42", attempt.UserAnswer)
	assert.True(t, attempt.IsCorrect)
}

// 重复提交不带 timeSpent 时不能把已累计的值清成 0
func TestResubmitPracticeWithoutTimeSpentKeepsPrior(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	_, err = svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "pp-1", UserAnswer: "wrong", TimeSpent: 30,
	})
	require.NoError(t, err)
	_, err = svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "pp-1", UserAnswer: "42",
	})
	require.NoError(t, err)

	progress, err := repos.progress.FindByUserAndStage("user-1", stage.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Len(t, progress.PracticeProblemAttempts, 1)
	assert.Equal(t, 30, progress.PracticeProblemAttempts[0].TimeSpent)

	_, err = svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "pp-1", UserAnswer: "42", TimeSpent: 45,
	})
	require.NoError(t, err)

	progress, err = repos.progress.FindByUserAndStage("user-1", stage.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, progress.PracticeProblemAttempts[0].TimeSpent)
}

func TestSubmitPracticeUnknownProblem(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	_, err = svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "missing", UserAnswer: "42",
	})
	assert.ErrorIs(t, err, util.ErrPracticeProblemNotFound)
}

func TestSubmitMCQResponseShape(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	correct, err := svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-b",
	})
	require.NoError(t, err)
	assert.True(t, correct.IsCorrect)
	assert.NotEmpty(t, correct.Explanation)
	assert.Empty(t, correct.CorrectOption, "correct answers never leak the correct option id")

	incorrect, err := svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-a",
	})
	require.NoError(t, err)
	assert.False(t, incorrect.IsCorrect)
	assert.Empty(t, incorrect.Explanation)
	assert.Equal(t, "opt-b", incorrect.CorrectOption)
}

func TestSubmitMCQOverwritesAttempt(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	_, err = svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-a",
	})
	require.NoError(t, err)
	_, err = svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-b",
	})
	require.NoError(t, err)

	progress, err := repos.progress.FindByUserAndStage("user-1", stage.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Len(t, progress.MCQAttempts, 1)
	assert.Equal(t, "opt-b", progress.MCQAttempts[0].SelectedOptionID)
	assert.True(t, progress.MCQAttempts[0].IsCorrect)
}

func TestResubmitMCQWithoutTimeSpentKeepsPrior(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	_, err = svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-a", TimeSpent: 20,
	})
	require.NoError(t, err)
	_, err = svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-b",
	})
	require.NoError(t, err)

	progress, err := repos.progress.FindByUserAndStage("user-1", stage.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Len(t, progress.MCQAttempts, 1)
	assert.Equal(t, 20, progress.MCQAttempts[0].TimeSpent)
}

func TestSubmitMCQUnknownOption(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	_, err = svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-1", SelectedOptionID: "opt-z",
	})
	assert.ErrorIs(t, err, util.ErrOptionNotFound)

	_, err = svc.SubmitMCQ("user-1", pod.ID, stage.ID, MCQSubmissionInput{
		QuestionID: "q-9", SelectedOptionID: "opt-a",
	})
	assert.ErrorIs(t, err, util.ErrMCQNotFound)
}

// 完整走一遍：开始 → 提交练习 → 完成
func TestStageLifecycle(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	progress, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageInProgress, progress.Status)

	result, err := svc.SubmitPractice("user-1", pod.ID, stage.ID, PracticeSubmissionInput{
		ProblemID: "pp-1", UserAnswer: "42",
	})
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, "42", result.Solution)
	assert.Equal(t, "Correct answer!", result.Message)

	score := 90
	progress, err = svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{AssessmentScore: &score})
	require.NoError(t, err)
	assert.Equal(t, model.StageCompleted, progress.Status)
	require.NotNil(t, progress.AssessmentScore)
	assert.Equal(t, 90, *progress.AssessmentScore)
}

func TestCompleteLastRequiredStageFinalizesAttempts(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	_, err = svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{})
	require.NoError(t, err)

	active, err := repos.attempt.FindActivePodAttempt("user-1", pod.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	var podAttempt model.PodAttempt
	require.NoError(t, db.Where("user_id = ? AND pod_id = ?", "user-1", pod.ID).First(&podAttempt).Error)
	assert.Equal(t, model.AttemptCompleted, podAttempt.Status)
	assert.Nil(t, podAttempt.ActiveMark)
	require.NotNil(t, podAttempt.CompletedAt)

	var problemAttempt model.ProblemAttempt
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&problemAttempt).Error)
	assert.Equal(t, model.AttemptCompleted, problemAttempt.Status)
	require.NotNil(t, problemAttempt.CompletedAt)
}

// Pod 结束后重开：老 attempt 留下的 completed 进度不能被复用，
// 必须在新的 PodAttempt 下重新建一条 in_progress 记录
func TestRestartStageAfterPodCompletionStartsFreshProgress(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	svc := newProgressService(repos)

	first, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	_, err = svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{})
	require.NoError(t, err)

	restarted, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, restarted.ID)
	assert.Equal(t, model.StageInProgress, restarted.Status)
	assert.Nil(t, restarted.CompletedAt)

	newAttempt, err := repos.attempt.FindActivePodAttempt("user-1", pod.ID)
	require.NoError(t, err)
	require.NotNil(t, newAttempt)
	assert.Equal(t, newAttempt.ID, restarted.PodAttemptID)
	assert.NotEqual(t, first.PodAttemptID, restarted.PodAttemptID)
}

func TestCompleteStageKeepsAttemptsActiveWhileRequiredSiblingRemains(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	sibling := &model.PodStage{
		PodID:      pod.ID,
		Title:      "Read the case studies",
		Order:      2,
		Type:       model.StageCaseStudies,
		IsRequired: true,
	}
	require.NoError(t, repos.stage.Create(sibling))
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	_, err = svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{})
	require.NoError(t, err)

	active, err := repos.attempt.FindActivePodAttempt("user-1", pod.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, model.AttemptActive, active.Status)
}

func TestOptionalStageDoesNotBlockFinalization(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)
	optional := &model.PodStage{
		PodID:      pod.ID,
		Title:      "Extra reading",
		Order:      2,
		Type:       model.StageResources,
		IsRequired: false,
	}
	require.NoError(t, repos.stage.Create(optional))
	svc := newProgressService(repos)

	_, err := svc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)
	_, err = svc.CompleteStage("user-1", pod.ID, stage.ID, CompleteStageInput{})
	require.NoError(t, err)

	active, err := repos.attempt.FindActivePodAttempt("user-1", pod.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}
