package repository

import (
	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) Create(problem *model.Problem) error {
	return r.DB.Create(problem).Error
}

func (r *ProblemRepository) FindByID(id string) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.First(&problem, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

// FindPublicBySlug 用户侧按 slug 查询，仅返回公开的 Problem
func (r *ProblemRepository) FindPublicBySlug(slug string) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("slug = ? AND is_public = ?", slug, true).First(&problem).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *ProblemRepository) Save(problem *model.Problem) error {
	return r.DB.Save(problem).Error
}

func (r *ProblemRepository) Delete(id string) error {
	return r.DB.Delete(&model.Problem{}, "id = ?", id).Error
}

type ProblemFilter struct {
	Difficulty string
	IsPublic   *bool
}

func (r *ProblemRepository) List(page, limit int, filter ProblemFilter) ([]model.Problem, int64, error) {
	query := r.DB.Model(&model.Problem{})

	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.IsPublic != nil {
		query = query.Where("is_public = ?", *filter.IsPublic)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var problems []model.Problem
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&problems).Error
	return problems, total, err
}

// AppendPodRef 在父 Problem 的 pod 列表末尾追加引用。
// pods 列靠 serializer:json 落库，必须走 Save 让序列化器生效，
// 不能把切片直接当 SQL 参数传给 Update。
func (r *ProblemRepository) AppendPodRef(problem *model.Problem, ref model.PodRef) error {
	problem.Pods = append(problem.Pods, ref)
	return r.DB.Save(problem).Error
}

// RemovePodRef 从父 Problem 的 pod 列表中摘除引用
func (r *ProblemRepository) RemovePodRef(problemID, podID string) error {
	problem, err := r.FindByID(problemID)
	if err != nil {
		return err
	}

	refs := problem.Pods[:0]
	for _, ref := range problem.Pods {
		if ref.PodID != podID {
			refs = append(refs, ref)
		}
	}
	problem.Pods = refs
	return r.DB.Save(problem).Error
}
