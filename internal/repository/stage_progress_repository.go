package repository

import (
	"errors"

	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

type StageProgressRepository struct {
	DB *gorm.DB
}

func NewStageProgressRepository(db *gorm.DB) *StageProgressRepository {
	return &StageProgressRepository{DB: db}
}

// FindByUserAndStage complete/submit 路径按 (user, stage) 查最近一条进度
func (r *StageProgressRepository) FindByUserAndStage(userID, stageID string) (*model.UserStageProgress, error) {
	var progress model.UserStageProgress
	err := r.DB.Where("user_id = ? AND stage_id = ?", userID, stageID).
		Order("created_at DESC").
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindByAttemptAndStage start 路径按 (podAttempt, stage) 精确定位进度，
// 唯一索引 idx_stage_progress_attempt_stage 保证至多一条
func (r *StageProgressRepository) FindByAttemptAndStage(podAttemptID, stageID string) (*model.UserStageProgress, error) {
	var progress model.UserStageProgress
	err := r.DB.Where("pod_attempt_id = ? AND stage_id = ?", podAttemptID, stageID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *StageProgressRepository) FindByUserAndStageIDs(userID string, stageIDs []string) ([]model.UserStageProgress, error) {
	if len(stageIDs) == 0 {
		return nil, nil
	}
	var records []model.UserStageProgress
	err := r.DB.Where("user_id = ? AND stage_id IN ?", userID, stageIDs).Find(&records).Error
	return records, err
}

func (r *StageProgressRepository) Create(progress *model.UserStageProgress) error {
	return r.DB.Create(progress).Error
}

func (r *StageProgressRepository) Save(progress *model.UserStageProgress) error {
	return r.DB.Save(progress).Error
}
