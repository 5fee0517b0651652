package repository

import (
	"podlab_backend/internal/model"

	"gorm.io/gorm"
)

type ArtefactRepository struct {
	DB *gorm.DB
}

func NewArtefactRepository(db *gorm.DB) *ArtefactRepository {
	return &ArtefactRepository{DB: db}
}

func (r *ArtefactRepository) Create(artefact *model.Artefact) error {
	return r.DB.Create(artefact).Error
}

func (r *ArtefactRepository) FindByID(id string) (*model.Artefact, error) {
	var artefact model.Artefact
	err := r.DB.First(&artefact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &artefact, nil
}

func (r *ArtefactRepository) ListByPodAttempt(podAttemptID string) ([]model.Artefact, error) {
	var artefacts []model.Artefact
	err := r.DB.Where("pod_attempt_id = ?", podAttemptID).Order("created_at ASC").Find(&artefacts).Error
	return artefacts, err
}

func (r *ArtefactRepository) Save(artefact *model.Artefact) error {
	return r.DB.Save(artefact).Error
}

func (r *ArtefactRepository) Delete(id string) error {
	return r.DB.Delete(&model.Artefact{}, "id = ?", id).Error
}
