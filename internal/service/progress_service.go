package service

import (
	"errors"
	"strings"
	"time"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"
	"podlab_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 实现 Stage 进度状态机：locked → in_progress → completed。
// 状态只前进不回退，Start 和 Complete 之间的不对称是有意为之：
// 完成要求进度记录已存在，开始则按需补建整条 attempt 链。
type ProgressService struct {
	StageRepo    *repository.StageRepository
	PodRepo      *repository.PodRepository
	AttemptRepo  *repository.AttemptRepository
	ProgressRepo *repository.StageProgressRepository
}

func NewProgressService(
	stageRepo *repository.StageRepository,
	podRepo *repository.PodRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.StageProgressRepository,
) *ProgressService {
	return &ProgressService{
		StageRepo:    stageRepo,
		PodRepo:      podRepo,
		AttemptRepo:  attemptRepo,
		ProgressRepo: progressRepo,
	}
}

// StartStage 开始一个 Stage。依次补齐 ProblemAttempt、PodAttempt、进度记录，
// 三次写入相互独立，不在一个事务里。对 in_progress 状态重复调用无副作用。
func (s *ProgressService) StartStage(userID, podID, stageID string) (*model.UserStageProgress, error) {
	stage, err := s.StageRepo.FindByPodAndID(podID, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	pod, err := s.PodRepo.FindByID(stage.PodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPodNotFound
		}
		return nil, err
	}

	now := time.Now()

	problemAttempt, err := s.AttemptRepo.FindActiveProblemAttempt(userID, pod.ProblemID)
	if err != nil {
		return nil, err
	}
	if problemAttempt == nil {
		problemAttempt = &model.ProblemAttempt{
			UserID:    userID,
			ProblemID: pod.ProblemID,
			Status:    model.AttemptActive,
			StartedAt: now,
		}
		if err := s.AttemptRepo.CreateProblemAttempt(problemAttempt); err != nil {
			return nil, err
		}
	}

	podAttempt, err := s.AttemptRepo.FindActivePodAttempt(userID, podID)
	if err != nil {
		return nil, err
	}
	if podAttempt == nil {
		podAttempt = &model.PodAttempt{
			UserID:           userID,
			ProblemAttemptID: problemAttempt.ID,
			PodID:            podID,
			StartedAt:        now,
		}
		podAttempt.MarkActive()
		if err := s.AttemptRepo.CreatePodAttempt(podAttempt); err != nil {
			return nil, err
		}
	}

	// 进度按当前 PodAttempt 定位：上一轮已结束的 attempt 留下的 completed
	// 记录不能复用，重开 Pod 时要在新 attempt 下重新建进度
	progress, err := s.ProgressRepo.FindByAttemptAndStage(podAttempt.ID, stageID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &model.UserStageProgress{
			UserID:       userID,
			StageID:      stageID,
			PodAttemptID: podAttempt.ID,
			Status:       model.StageInProgress,
			StartedAt:    &now,
		}
		if err := s.ProgressRepo.Create(progress); err != nil {
			return nil, err
		}
		monitoring.StageTransitionCounter.WithLabelValues("start").Inc()
		return progress, nil
	}

	if progress.Status == model.StageLocked {
		progress.Status = model.StageInProgress
		progress.StartedAt = &now
		if err := s.ProgressRepo.Save(progress); err != nil {
			return nil, err
		}
		monitoring.StageTransitionCounter.WithLabelValues("unlock").Inc()
	}
	return progress, nil
}

type CompleteStageInput struct {
	AssessmentScore *int    `json:"assessmentScore"`
	Notes           *string `json:"notes"`
}

// CompleteStage 完成一个 Stage。进度记录必须已存在，否则 404。
func (s *ProgressService) CompleteStage(userID, podID, stageID string, input CompleteStageInput) (*model.UserStageProgress, error) {
	if _, err := s.StageRepo.FindByPodAndID(podID, stageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.FindByUserAndStage(userID, stageID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, util.ErrStageProgressNotFound
	}

	now := time.Now()
	progress.Status = model.StageCompleted
	progress.CompletedAt = &now
	if input.AssessmentScore != nil {
		progress.AssessmentScore = input.AssessmentScore
	}
	if input.Notes != nil {
		progress.Notes = *input.Notes
	}
	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}
	monitoring.StageTransitionCounter.WithLabelValues("complete").Inc()
	if err := s.finalizeAttempts(userID, podID, now); err != nil {
		return nil, err
	}

	logger.Log.Info("Stage 完成",
		zap.String("userId", userID),
		zap.String("stageId", stageID))
	return progress, nil
}

// finalizeAttempts 完成某个 Stage 后检查 attempt 链：Pod 下必修 Stage 全部完成时
// 结束 PodAttempt（释放唯一索引槽位），Problem 下所有 Pod 的必修 Stage 全部完成时
// 再结束 ProblemAttempt。重复调用安全，attempt 已结束时直接跳过。
func (s *ProgressService) finalizeAttempts(userID, podID string, completedAt time.Time) error {
	stages, err := s.StageRepo.FindByPodID(podID)
	if err != nil {
		return err
	}
	done, err := s.requiredStagesCompleted(userID, stages)
	if err != nil || !done {
		return err
	}

	podAttempt, err := s.AttemptRepo.FindActivePodAttempt(userID, podID)
	if err != nil {
		return err
	}
	if podAttempt != nil {
		podAttempt.MarkCompleted(completedAt)
		if err := s.AttemptRepo.SavePodAttempt(podAttempt); err != nil {
			return err
		}
		logger.Log.Info("PodAttempt 完成",
			zap.String("userId", userID),
			zap.String("podId", podID))
	}

	pod, err := s.PodRepo.FindByID(podID)
	if err != nil {
		return err
	}
	pods, err := s.PodRepo.FindByProblemID(pod.ProblemID)
	if err != nil {
		return err
	}
	podIDs := make([]string, 0, len(pods))
	for _, p := range pods {
		podIDs = append(podIDs, p.ID)
	}
	allStages, err := s.StageRepo.FindByPodIDs(podIDs)
	if err != nil {
		return err
	}
	done, err = s.requiredStagesCompleted(userID, allStages)
	if err != nil || !done {
		return err
	}

	problemAttempt, err := s.AttemptRepo.FindActiveProblemAttempt(userID, pod.ProblemID)
	if err != nil {
		return err
	}
	if problemAttempt != nil {
		problemAttempt.Status = model.AttemptCompleted
		problemAttempt.CompletedAt = &completedAt
		if err := s.AttemptRepo.SaveProblemAttempt(problemAttempt); err != nil {
			return err
		}
		logger.Log.Info("ProblemAttempt 完成",
			zap.String("userId", userID),
			zap.String("problemId", pod.ProblemID))
	}
	return nil
}

// requiredStagesCompleted 给定 Stage 集合里的必修项是否都有已完成的进度记录
func (s *ProgressService) requiredStagesCompleted(userID string, stages []model.PodStage) (bool, error) {
	required := make([]string, 0, len(stages))
	for _, st := range stages {
		if st.IsRequired {
			required = append(required, st.ID)
		}
	}
	if len(required) == 0 {
		return false, nil
	}

	records, err := s.ProgressRepo.FindByUserAndStageIDs(userID, required)
	if err != nil {
		return false, err
	}
	completed := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.Status == model.StageCompleted {
			completed[rec.StageID] = true
		}
	}
	for _, id := range required {
		if !completed[id] {
			return false, nil
		}
	}
	return true, nil
}

type ProgressUpdateInput struct {
	TimeSpent               *int                            `json:"timeSpent"`
	ResourcesViewed         []string                        `json:"resourcesViewed"`
	CaseStudiesViewed       []string                        `json:"caseStudiesViewed"`
	PracticeProblemAttempts []model.PracticeProblemAttempt  `json:"practiceProblemAttempts"`
	MCQAttempts             []model.MCQAttempt              `json:"mcqAttempts"`
}

// UpdateProgress 部分更新进度字段。不触碰 status，lastAccessedAt 每次都会刷新。
func (s *ProgressService) UpdateProgress(userID, podID, stageID string, input ProgressUpdateInput) (*model.UserStageProgress, error) {
	if _, err := s.StageRepo.FindByPodAndID(podID, stageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.FindByUserAndStage(userID, stageID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, util.ErrStageProgressNotFound
	}

	if input.TimeSpent != nil {
		progress.TimeSpent = *input.TimeSpent
	}
	if input.ResourcesViewed != nil {
		progress.ResourcesViewed = input.ResourcesViewed
	}
	if input.CaseStudiesViewed != nil {
		progress.CaseStudiesViewed = input.CaseStudiesViewed
	}
	if input.PracticeProblemAttempts != nil {
		progress.PracticeProblemAttempts = input.PracticeProblemAttempts
	}
	if input.MCQAttempts != nil {
		progress.MCQAttempts = input.MCQAttempts
	}
	now := time.Now()
	progress.LastAccessedAt = &now

	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

type PracticeSubmissionInput struct {
	ProblemID  string `json:"problemId" binding:"required"`
	UserAnswer string `json:"userAnswer" binding:"required"`
	TimeSpent  int    `json:"timeSpent"`
}

type PracticeResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Solution  string `json:"solution,omitempty"`
	Message   string `json:"message"`
}

// SubmitPractice 提交练习题答案。判定为去除首尾空白后的忽略大小写比较，
// 同一题重复提交只保留最新答案并累加 attempts。答案正确时才回显 solution。
func (s *ProgressService) SubmitPractice(userID, podID, stageID string, input PracticeSubmissionInput) (*PracticeResult, error) {
	stage, err := s.StageRepo.FindByPodAndID(podID, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	practice := stage.FindPracticeProblem(input.ProblemID)
	if practice == nil {
		return nil, util.ErrPracticeProblemNotFound
	}

	progress, err := s.ProgressRepo.FindByUserAndStage(userID, stageID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, util.ErrStageProgressNotFound
	}

	isCorrect := strings.EqualFold(
		strings.TrimSpace(input.UserAnswer),
		strings.TrimSpace(practice.Solution),
	)

	now := time.Now()
	if attempt := progress.FindPracticeAttempt(input.ProblemID); attempt != nil {
		attempt.UserAnswer = input.UserAnswer
		attempt.IsCorrect = isCorrect
		attempt.Attempts++
		// timeSpent 缺省时保留上一次的值
		if input.TimeSpent != 0 {
			attempt.TimeSpent = input.TimeSpent
		}
		attempt.CompletedAt = now
	} else {
		progress.PracticeProblemAttempts = append(progress.PracticeProblemAttempts, model.PracticeProblemAttempt{
			ProblemID:   input.ProblemID,
			UserAnswer:  input.UserAnswer,
			IsCorrect:   isCorrect,
			Attempts:    1,
			TimeSpent:   input.TimeSpent,
			CompletedAt: now,
		})
	}

	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}

	result := &PracticeResult{IsCorrect: isCorrect}
	if isCorrect {
		result.Solution = practice.Solution
		result.Message = "Correct answer!"
	} else {
		result.Message = "Incorrect answer. Try again!"
	}
	return result, nil
}

type MCQSubmissionInput struct {
	QuestionID       string `json:"questionId" binding:"required"`
	SelectedOptionID string `json:"selectedOptionId" binding:"required"`
	TimeSpent        int    `json:"timeSpent"`
}

type MCQResult struct {
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation,omitempty"`
	CorrectOption string `json:"correctOption,omitempty"`
}

// SubmitMCQ 提交选择题答案。答对返回解析，答错只返回正确选项的 ID，
// 两个字段不会同时出现。
func (s *ProgressService) SubmitMCQ(userID, podID, stageID string, input MCQSubmissionInput) (*MCQResult, error) {
	stage, err := s.StageRepo.FindByPodAndID(podID, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	question := stage.FindMCQ(input.QuestionID)
	if question == nil {
		return nil, util.ErrMCQNotFound
	}
	option := question.FindOption(input.SelectedOptionID)
	if option == nil {
		return nil, util.ErrOptionNotFound
	}

	progress, err := s.ProgressRepo.FindByUserAndStage(userID, stageID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, util.ErrStageProgressNotFound
	}

	now := time.Now()
	if attempt := progress.FindMCQAttempt(input.QuestionID); attempt != nil {
		attempt.SelectedOptionID = input.SelectedOptionID
		attempt.IsCorrect = option.IsCorrect
		if input.TimeSpent != 0 {
			attempt.TimeSpent = input.TimeSpent
		}
		attempt.CompletedAt = now
	} else {
		progress.MCQAttempts = append(progress.MCQAttempts, model.MCQAttempt{
			QuestionID:       input.QuestionID,
			SelectedOptionID: input.SelectedOptionID,
			IsCorrect:        option.IsCorrect,
			TimeSpent:        input.TimeSpent,
			CompletedAt:      now,
		})
	}

	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}

	result := &MCQResult{IsCorrect: option.IsCorrect}
	if option.IsCorrect {
		result.Explanation = question.Explanation
	} else if correct := question.CorrectOption(); correct != nil {
		result.CorrectOption = correct.ID
	}
	return result, nil
}
