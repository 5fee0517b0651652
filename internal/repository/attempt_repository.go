package repository

import (
	"errors"

	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// FindActiveProblemAttempt 找不到时返回 (nil, nil)，由调用方决定是否创建
func (r *AttemptRepository) FindActiveProblemAttempt(userID, problemID string) (*model.ProblemAttempt, error) {
	var attempt model.ProblemAttempt
	err := r.DB.Where("user_id = ? AND problem_id = ? AND status = ?", userID, problemID, model.AttemptActive).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CreateProblemAttempt(attempt *model.ProblemAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) SaveProblemAttempt(attempt *model.ProblemAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) FindActivePodAttempt(userID, podID string) (*model.PodAttempt, error) {
	var attempt model.PodAttempt
	err := r.DB.Where("user_id = ? AND pod_id = ? AND status = ?", userID, podID, model.AttemptActive).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindPodAttemptByID(id string) (*model.PodAttempt, error) {
	var attempt model.PodAttempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CreatePodAttempt(attempt *model.PodAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) SavePodAttempt(attempt *model.PodAttempt) error {
	return r.DB.Save(attempt).Error
}
