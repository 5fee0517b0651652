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

type PodService struct {
	PodRepo     *repository.PodRepository
	ProblemRepo *repository.ProblemRepository
	StageRepo   *repository.StageRepository
	Content     *ContentService
}

func NewPodService(
	podRepo *repository.PodRepository,
	problemRepo *repository.ProblemRepository,
	stageRepo *repository.StageRepository,
	content *ContentService,
) *PodService {
	return &PodService{
		PodRepo:     podRepo,
		ProblemRepo: problemRepo,
		StageRepo:   stageRepo,
		Content:     content,
	}
}

type PodInput struct {
	ProblemID        string              `json:"problemId" binding:"required"`
	Title            string              `json:"title" binding:"required"`
	Phase            model.PodPhase      `json:"phase" binding:"required"`
	Order            int                 `json:"order"`
	Resources        []model.PodResource `json:"resources"`
	ExpectedOutputs  []string            `json:"expectedOutputs"`
	DescriptionMD    string              `json:"descriptionMd"`
	ContentFilePath  string              `json:"contentFilePath"`
	Mode             model.PodMode       `json:"mode"`
	EstimatedMinutes int                 `json:"estimatedMinutes"`
}

var ErrInvalidPhase = errors.New("phase must be one of: research, design, implementation, reflection")

// Create 新建 Pod 并把引用追加到父 Problem 的 pods 列表。
// 两次写入没有事务包裹，中间窗口可能出现 Pod 已存在但父引用缺失。
func (s *PodService) Create(input PodInput) (*model.Pod, error) {
	if !input.Phase.Valid() {
		return nil, ErrInvalidPhase
	}

	problem, err := s.ProblemRepo.FindByID(input.ProblemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	pod := &model.Pod{
		ProblemID:        input.ProblemID,
		Title:            input.Title,
		Phase:            input.Phase,
		Order:            input.Order,
		Resources:        input.Resources,
		ExpectedOutputs:  input.ExpectedOutputs,
		DescriptionMD:    input.DescriptionMD,
		ContentFilePath:  input.ContentFilePath,
		Mode:             input.Mode,
		EstimatedMinutes: input.EstimatedMinutes,
	}
	if pod.Mode == "" {
		pod.Mode = model.MultiStage
	}
	if pod.EstimatedMinutes == 0 {
		pod.EstimatedMinutes = 60
	}
	if err := s.PodRepo.Create(pod); err != nil {
		return nil, err
	}

	ref := model.PodRef{PodID: pod.ID, Order: input.Order, Weight: 1}
	if err := s.ProblemRepo.AppendPodRef(problem, ref); err != nil {
		logger.Log.Error("追加 Problem 的 Pod 引用失败",
			zap.String("problemId", problem.ID),
			zap.String("podId", pod.ID),
			zap.Error(err))
		return nil, err
	}
	return pod, nil
}

func (s *PodService) Update(id string, input PodInput) (*model.Pod, error) {
	if !input.Phase.Valid() {
		return nil, ErrInvalidPhase
	}
	pod, err := s.PodRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPodNotFound
		}
		return nil, err
	}

	pod.Title = input.Title
	pod.Phase = input.Phase
	pod.Order = input.Order
	pod.Resources = input.Resources
	pod.ExpectedOutputs = input.ExpectedOutputs
	pod.DescriptionMD = input.DescriptionMD
	previousPath := pod.ContentFilePath
	pod.ContentFilePath = input.ContentFilePath
	if input.Mode != "" {
		pod.Mode = input.Mode
	}
	if input.EstimatedMinutes != 0 {
		pod.EstimatedMinutes = input.EstimatedMinutes
	}

	if err := s.PodRepo.Save(pod); err != nil {
		return nil, err
	}
	if previousPath != "" && s.Content != nil {
		s.Content.Invalidate(context.Background(), previousPath)
	}
	return pod, nil
}

// Delete 级联删除下属 Stage，并从父 Problem 的 pods 列表摘除引用
func (s *PodService) Delete(id string) error {
	pod, err := s.PodRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPodNotFound
		}
		return err
	}

	if err := s.StageRepo.DeleteByPodID(id); err != nil {
		return err
	}
	if err := s.PodRepo.Delete(id); err != nil {
		return err
	}
	if err := s.ProblemRepo.RemovePodRef(pod.ProblemID, id); err != nil {
		logger.Log.Error("摘除 Problem 的 Pod 引用失败",
			zap.String("problemId", pod.ProblemID),
			zap.String("podId", id),
			zap.Error(err))
		return err
	}
	if pod.ContentFilePath != "" && s.Content != nil {
		s.Content.Invalidate(context.Background(), pod.ContentFilePath)
	}
	return nil
}

func (s *PodService) Get(id string) (*model.Pod, error) {
	pod, err := s.PodRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPodNotFound
		}
		return nil, err
	}
	return pod, nil
}

func (s *PodService) List(page, limit int, filter repository.PodFilter) ([]model.Pod, int64, error) {
	return s.PodRepo.List(page, limit, filter)
}
