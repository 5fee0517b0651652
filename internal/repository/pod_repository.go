package repository

import (
	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

type PodRepository struct {
	DB *gorm.DB
}

func NewPodRepository(db *gorm.DB) *PodRepository {
	return &PodRepository{DB: db}
}

func (r *PodRepository) Create(pod *model.Pod) error {
	return r.DB.Create(pod).Error
}

func (r *PodRepository) FindByID(id string) (*model.Pod, error) {
	var pod model.Pod
	err := r.DB.First(&pod, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pod, nil
}

func (r *PodRepository) FindByProblemID(problemID string) ([]model.Pod, error) {
	var pods []model.Pod
	err := r.DB.Where("problem_id = ?", problemID).Order("display_order ASC").Find(&pods).Error
	return pods, err
}

func (r *PodRepository) Save(pod *model.Pod) error {
	return r.DB.Save(pod).Error
}

func (r *PodRepository) Delete(id string) error {
	return r.DB.Delete(&model.Pod{}, "id = ?", id).Error
}

func (r *PodRepository) DeleteByProblemID(problemID string) error {
	return r.DB.Delete(&model.Pod{}, "problem_id = ?", problemID).Error
}

type PodFilter struct {
	Phase  string
	Search string
}

func (r *PodRepository) List(page, limit int, filter PodFilter) ([]model.Pod, int64, error) {
	query := r.DB.Model(&model.Pod{})

	if filter.Phase != "" {
		query = query.Where("phase = ?", filter.Phase)
	}
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pods []model.Pod
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pods).Error
	return pods, total, err
}
