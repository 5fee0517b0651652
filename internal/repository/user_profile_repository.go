package repository

import (
	"errors"

	"podlab_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepository struct {
	DB *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{DB: db}
}

func (r *UserProfileRepository) FindByUserID(userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserProfileRepository) FindByID(id string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert 按 user_id 幂等写入
func (r *UserProfileRepository) Upsert(profile *model.UserProfile) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}

func (r *UserProfileRepository) Save(profile *model.UserProfile) error {
	return r.DB.Save(profile).Error
}

func (r *UserProfileRepository) Delete(id string) error {
	return r.DB.Delete(&model.UserProfile{}, "id = ?", id).Error
}

type UserFilter struct {
	Tier   string
	Search string
}

func (r *UserProfileRepository) List(page, limit int, filter UserFilter) ([]model.UserProfile, int64, error) {
	query := r.DB.Model(&model.UserProfile{})

	if filter.Tier != "" {
		query = query.Where("subscription_tier = ?", filter.Tier)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"email LIKE ? OR username LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.UserProfile
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}
