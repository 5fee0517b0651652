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

type StageService struct {
	StageRepo    *repository.StageRepository
	PodRepo      *repository.PodRepository
	ProgressRepo *repository.StageProgressRepository
	Content      *ContentService
}

func NewStageService(
	stageRepo *repository.StageRepository,
	podRepo *repository.PodRepository,
	progressRepo *repository.StageProgressRepository,
	content *ContentService,
) *StageService {
	return &StageService{
		StageRepo:    stageRepo,
		PodRepo:      podRepo,
		ProgressRepo: progressRepo,
		Content:      content,
	}
}

type StageInput struct {
	PodID            string                  `json:"podId" binding:"required"`
	Title            string                  `json:"title" binding:"required"`
	Description      string                  `json:"description"`
	Order            int                     `json:"order"`
	Type             model.StageType         `json:"type" binding:"required"`
	Content          model.StageContent      `json:"content"`
	UnlockConditions []model.UnlockCondition `json:"unlockConditions"`
	EstimatedMinutes int                     `json:"estimatedMinutes"`
	IsRequired       *bool                   `json:"isRequired"`
	StageKey         string                  `json:"stageKey"`
}

var ErrInvalidStageType = errors.New("type must be one of: introduction, case_studies, resources, practice, assessment, documentation")

func (s *StageService) Create(input StageInput) (*model.PodStage, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidStageType
	}

	if _, err := s.PodRepo.FindByID(input.PodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPodNotFound
		}
		return nil, err
	}

	stage := &model.PodStage{
		PodID:            input.PodID,
		Title:            input.Title,
		Description:      input.Description,
		Order:            input.Order,
		Type:             input.Type,
		Content:          input.Content,
		UnlockConditions: input.UnlockConditions,
		EstimatedMinutes: input.EstimatedMinutes,
		IsRequired:       true,
		StageKey:         input.StageKey,
	}
	if stage.EstimatedMinutes == 0 {
		stage.EstimatedMinutes = 30
	}
	if input.IsRequired != nil {
		stage.IsRequired = *input.IsRequired
	}
	if err := s.StageRepo.Create(stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *StageService) Update(id string, input StageInput) (*model.PodStage, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidStageType
	}
	stage, err := s.StageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	stage.Title = input.Title
	stage.Description = input.Description
	stage.Order = input.Order
	stage.Type = input.Type
	stage.Content = input.Content
	stage.UnlockConditions = input.UnlockConditions
	if input.EstimatedMinutes != 0 {
		stage.EstimatedMinutes = input.EstimatedMinutes
	}
	if input.IsRequired != nil {
		stage.IsRequired = *input.IsRequired
	}
	previousKey := stage.StageKey
	stage.StageKey = input.StageKey

	if err := s.StageRepo.Save(stage); err != nil {
		return nil, err
	}
	if previousKey != "" && s.Content != nil {
		s.Content.Invalidate(context.Background(), StageContentKey(previousKey))
	}
	return stage, nil
}

func (s *StageService) Delete(id string) error {
	stage, err := s.StageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStageNotFound
		}
		return err
	}
	if err := s.StageRepo.Delete(id); err != nil {
		return err
	}
	if stage.StageKey != "" && s.Content != nil {
		s.Content.Invalidate(context.Background(), StageContentKey(stage.StageKey))
	}
	return nil
}

func (s *StageService) List(page, limit int, filter repository.StageFilter) ([]model.PodStage, int64, error) {
	return s.StageRepo.List(page, limit, filter)
}

// PodStagesView Pod 及其有序 Stage 列表（带调用方进度）
type PodStagesView struct {
	Pod    model.Pod           `json:"pod"`
	Stages []StageWithProgress `json:"stages"`
}

// ListForUser 返回 Pod 下的全部 Stage，按 order 升序，并拼上调用方的进度记录
func (s *StageService) ListForUser(userID, podID string) (*PodStagesView, error) {
	pod, err := s.PodRepo.FindByID(podID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPodNotFound
		}
		return nil, err
	}

	stages, err := s.StageRepo.FindByPodID(podID)
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

	view := &PodStagesView{Pod: *pod, Stages: make([]StageWithProgress, 0, len(stages))}
	for _, st := range stages {
		view.Stages = append(view.Stages, StageWithProgress{
			PodStage: st,
			Progress: progressByStage[st.ID],
		})
	}
	return view, nil
}

// StageDetailView 单个 Stage 详情（带进度和外部内容）
type StageDetailView struct {
	StageWithProgress
	ExternalContent string `json:"externalContent,omitempty"`
}

// GetForUser 返回单个 Stage 详情。Stage 配置了 stageKey 时尝试叠加外部内容文件，
// 读取失败只降级不报错。
func (s *StageService) GetForUser(ctx context.Context, userID, podID, stageID string) (*StageDetailView, error) {
	stage, err := s.StageRepo.FindByPodAndID(podID, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.FindByUserAndStage(userID, stageID)
	if err != nil {
		return nil, err
	}

	view := &StageDetailView{
		StageWithProgress: StageWithProgress{PodStage: *stage, Progress: progress},
	}
	if stage.StageKey != "" && s.Content != nil {
		content, err := s.Content.Fetch(ctx, StageContentKey(stage.StageKey))
		if err != nil {
			if !errors.Is(err, util.ErrContentNotFound) {
				logger.Log.Warn("读取 Stage 内容文件失败",
					zap.String("stageId", stage.ID),
					zap.String("stageKey", stage.StageKey),
					zap.Error(err))
			}
		} else {
			view.ExternalContent = content
		}
	}
	return view, nil
}

// StageContentKey stageKey 到内容文件路径的映射
func StageContentKey(stageKey string) string {
	return "content/stages/" + stageKey + ".md"
}

// PodContent 返回 Pod 的 Markdown 正文。优先外部内容文件，
// 其次落回 descriptionMd，两者都没有时 404。
func (s *StageService) PodContent(ctx context.Context, podID string) (string, error) {
	pod, err := s.PodRepo.FindByID(podID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrPodNotFound
		}
		return "", err
	}

	if pod.ContentFilePath != "" && s.Content != nil {
		content, err := s.Content.Fetch(ctx, pod.ContentFilePath)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, util.ErrContentNotFound) {
			return "", err
		}
	}
	if pod.DescriptionMD != "" {
		return pod.DescriptionMD, nil
	}
	return "", util.ErrContentNotFound
}

// StageMarkdown 返回 Stage 的 Markdown 正文及结构化内容包。
// 优先 stageKey 对应的外部文件，其次落回内容包里的 contentMd。
func (s *StageService) StageMarkdown(ctx context.Context, podID, stageID string) (string, *model.StageContent, error) {
	stage, err := s.StageRepo.FindByPodAndID(podID, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrStageNotFound
		}
		return "", nil, err
	}

	if stage.StageKey != "" && s.Content != nil {
		content, err := s.Content.Fetch(ctx, StageContentKey(stage.StageKey))
		if err == nil {
			return content, &stage.Content, nil
		}
		if !errors.Is(err, util.ErrContentNotFound) {
			return "", nil, err
		}
	}
	return stage.Content.ContentMD, &stage.Content, nil
}
