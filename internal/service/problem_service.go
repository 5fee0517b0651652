package service

import (
	"context"
	"errors"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProblemService struct {
	ProblemRepo  *repository.ProblemRepository
	PodRepo      *repository.PodRepository
	StageRepo    *repository.StageRepository
	ProgressRepo *repository.StageProgressRepository
	Content      *ContentService
}

func NewProblemService(
	problemRepo *repository.ProblemRepository,
	podRepo *repository.PodRepository,
	stageRepo *repository.StageRepository,
	progressRepo *repository.StageProgressRepository,
	content *ContentService,
) *ProblemService {
	return &ProblemService{
		ProblemRepo:  problemRepo,
		PodRepo:      podRepo,
		StageRepo:    stageRepo,
		ProgressRepo: progressRepo,
		Content:      content,
	}
}

// StageWithProgress Stage 加上调用方自己的进度记录
type StageWithProgress struct {
	model.PodStage
	Progress *model.UserStageProgress `json:"progress,omitempty"`
}

// PodDetail Pod 加上有序 Stage 列表和外部内容
type PodDetail struct {
	model.Pod
	Stages  []StageWithProgress `json:"stages"`
	Content string              `json:"content,omitempty"`
}

// ProblemDetail 面向学习者的 Problem 详情
type ProblemDetail struct {
	model.Problem
	PodDetails []PodDetail `json:"podDetails"`
}

// GetBySlug 按 slug 返回公开 Problem 的完整内容树及调用方进度。
// 外部内容文件读取失败只降级不报错。
func (s *ProblemService) GetBySlug(ctx context.Context, userID, slug string) (*ProblemDetail, error) {
	problem, err := s.ProblemRepo.FindPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	pods, err := s.PodRepo.FindByProblemID(problem.ID)
	if err != nil {
		return nil, err
	}

	podIDs := make([]string, 0, len(pods))
	for _, p := range pods {
		podIDs = append(podIDs, p.ID)
	}
	stages, err := s.StageRepo.FindByPodIDs(podIDs)
	if err != nil {
		return nil, err
	}

	stageIDs := make([]string, 0, len(stages))
	for _, st := range stages {
		stageIDs = append(stageIDs, st.ID)
	}
	progressRecords, err := s.ProgressRepo.FindByUserAndStageIDs(userID, stageIDs)
	if err != nil {
		return nil, err
	}
	progressByStage := make(map[string]*model.UserStageProgress, len(progressRecords))
	for i := range progressRecords {
		progressByStage[progressRecords[i].StageID] = &progressRecords[i]
	}

	stagesByPod := make(map[string][]StageWithProgress)
	for _, st := range stages {
		stagesByPod[st.PodID] = append(stagesByPod[st.PodID], StageWithProgress{
			PodStage: st,
			Progress: progressByStage[st.ID],
		})
	}

	detail := &ProblemDetail{Problem: *problem}
	for _, pod := range pods {
		pd := PodDetail{Pod: pod, Stages: stagesByPod[pod.ID]}
		if pd.Stages == nil {
			pd.Stages = []StageWithProgress{}
		}
		if pod.ContentFilePath != "" && s.Content != nil {
			content, err := s.Content.Fetch(ctx, pod.ContentFilePath)
			if err != nil {
				if !errors.Is(err, util.ErrContentNotFound) {
					logger.Log.Warn("读取 Pod 内容文件失败",
						zap.String("podId", pod.ID),
						zap.String("path", pod.ContentFilePath),
						zap.Error(err))
				}
			} else {
				pd.Content = content
			}
		}
		detail.PodDetails = append(detail.PodDetails, pd)
	}
	return detail, nil
}

type ProblemInput struct {
	Slug           string              `json:"slug" binding:"required"`
	Title          string              `json:"title" binding:"required"`
	Description    string              `json:"description"`
	DescriptionMD  string              `json:"descriptionMd"`
	Tagline        string              `json:"tagline"`
	ContextMD      string              `json:"contextMd"`
	Difficulty     model.Difficulty    `json:"difficulty" binding:"required"`
	EstimatedHours float64             `json:"estimatedHours"`
	Skills         []model.SkillWeight `json:"skills"`
	IsPublic       bool                `json:"isPublic"`
}

var ErrInvalidDifficulty = errors.New("difficulty must be one of: beginner, intermediate, advanced")

func (s *ProblemService) Create(input ProblemInput) (*model.Problem, error) {
	if !input.Difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}
	problem := &model.Problem{
		Slug:           input.Slug,
		Title:          input.Title,
		Description:    input.Description,
		DescriptionMD:  input.DescriptionMD,
		Tagline:        input.Tagline,
		ContextMD:      input.ContextMD,
		Difficulty:     input.Difficulty,
		EstimatedHours: input.EstimatedHours,
		Skills:         input.Skills,
		Version:        1,
		IsPublic:       input.IsPublic,
	}
	if err := s.ProblemRepo.Create(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func (s *ProblemService) Update(id string, input ProblemInput) (*model.Problem, error) {
	if !input.Difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}
	problem, err := s.ProblemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	problem.Slug = input.Slug
	problem.Title = input.Title
	problem.Description = input.Description
	problem.DescriptionMD = input.DescriptionMD
	problem.Tagline = input.Tagline
	problem.ContextMD = input.ContextMD
	problem.Difficulty = input.Difficulty
	problem.EstimatedHours = input.EstimatedHours
	problem.Skills = input.Skills
	problem.IsPublic = input.IsPublic

	if err := s.ProblemRepo.Save(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

// Delete 级联删除：先删所有下属 Stage，再删 Pod，最后删 Problem 本身
func (s *ProblemService) Delete(id string) error {
	if _, err := s.ProblemRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProblemNotFound
		}
		return err
	}

	pods, err := s.PodRepo.FindByProblemID(id)
	if err != nil {
		return err
	}
	podIDs := make([]string, 0, len(pods))
	for _, p := range pods {
		podIDs = append(podIDs, p.ID)
	}

	if err := s.StageRepo.DeleteByPodIDs(podIDs); err != nil {
		return err
	}
	if err := s.PodRepo.DeleteByProblemID(id); err != nil {
		return err
	}
	if err := s.ProblemRepo.Delete(id); err != nil {
		return err
	}

	logger.Log.Info("Problem 已删除",
		zap.String("problemId", id),
		zap.Int("cascadedPods", len(podIDs)))
	return nil
}

func (s *ProblemService) List(page, limit int, filter repository.ProblemFilter) ([]model.Problem, int64, error) {
	return s.ProblemRepo.List(page, limit, filter)
}

func (s *ProblemService) Get(id string) (*model.Problem, error) {
	problem, err := s.ProblemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}
	return problem, nil
}
