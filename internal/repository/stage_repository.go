package repository

import (
	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

type StageRepository struct {
	DB *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) Create(stage *model.PodStage) error {
	return r.DB.Create(stage).Error
}

func (r *StageRepository) FindByID(id string) (*model.PodStage, error) {
	var stage model.PodStage
	err := r.DB.First(&stage, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

// FindByPodAndID 校验 stage 确实属于该 pod
func (r *StageRepository) FindByPodAndID(podID, stageID string) (*model.PodStage, error) {
	var stage model.PodStage
	err := r.DB.Where("id = ? AND pod_id = ?", stageID, podID).First(&stage).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) FindByPodID(podID string) ([]model.PodStage, error) {
	var stages []model.PodStage
	err := r.DB.Where("pod_id = ?", podID).Order("display_order ASC").Find(&stages).Error
	return stages, err
}

func (r *StageRepository) FindByPodIDs(podIDs []string) ([]model.PodStage, error) {
	if len(podIDs) == 0 {
		return nil, nil
	}
	var stages []model.PodStage
	err := r.DB.Where("pod_id IN ?", podIDs).Order("display_order ASC").Find(&stages).Error
	return stages, err
}

func (r *StageRepository) Save(stage *model.PodStage) error {
	return r.DB.Save(stage).Error
}

func (r *StageRepository) Delete(id string) error {
	return r.DB.Delete(&model.PodStage{}, "id = ?", id).Error
}

func (r *StageRepository) DeleteByPodID(podID string) error {
	return r.DB.Delete(&model.PodStage{}, "pod_id = ?", podID).Error
}

func (r *StageRepository) DeleteByPodIDs(podIDs []string) error {
	if len(podIDs) == 0 {
		return nil
	}
	return r.DB.Delete(&model.PodStage{}, "pod_id IN ?", podIDs).Error
}

type StageFilter struct {
	PodID string
	Type  string
}

func (r *StageRepository) List(page, limit int, filter StageFilter) ([]model.PodStage, int64, error) {
	query := r.DB.Model(&model.PodStage{})

	if filter.PodID != "" {
		query = query.Where("pod_id = ?", filter.PodID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stages []model.PodStage
	err := query.
		Order("display_order ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&stages).Error
	return stages, total, err
}
