package service

import (
	"errors"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/internal/util"

	"gorm.io/gorm"
)

// ArtefactService Pod attempt 产物的增删改查，所有操作都校验 attempt 归属
type ArtefactService struct {
	ArtefactRepo *repository.ArtefactRepository
	AttemptRepo  *repository.AttemptRepository
}

func NewArtefactService(
	artefactRepo *repository.ArtefactRepository,
	attemptRepo *repository.AttemptRepository,
) *ArtefactService {
	return &ArtefactService{
		ArtefactRepo: artefactRepo,
		AttemptRepo:  attemptRepo,
	}
}

var ErrInvalidArtefactType = errors.New("type must be one of: markdown, url, file, github_repo")

// ownedAttempt 校验 attempt 存在且归属于调用方
func (s *ArtefactService) ownedAttempt(userID, podAttemptID string) (*model.PodAttempt, error) {
	attempt, err := s.AttemptRepo.FindPodAttemptByID(podAttemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

type ArtefactInput struct {
	Type    model.ArtefactType `json:"type" binding:"required"`
	Content string             `json:"content"`
	URL     string             `json:"url"`
	FileID  string             `json:"fileId"`
}

func (s *ArtefactService) Create(userID, podAttemptID string, input ArtefactInput) (*model.Artefact, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidArtefactType
	}
	if _, err := s.ownedAttempt(userID, podAttemptID); err != nil {
		return nil, err
	}

	artefact := &model.Artefact{
		PodAttemptID: podAttemptID,
		Type:         input.Type,
		Content:      input.Content,
		URL:          input.URL,
		FileID:       input.FileID,
	}
	if err := s.ArtefactRepo.Create(artefact); err != nil {
		return nil, err
	}
	return artefact, nil
}

func (s *ArtefactService) List(userID, podAttemptID string) ([]model.Artefact, error) {
	if _, err := s.ownedAttempt(userID, podAttemptID); err != nil {
		return nil, err
	}
	return s.ArtefactRepo.ListByPodAttempt(podAttemptID)
}

func (s *ArtefactService) Update(userID, artefactID string, input ArtefactInput) (*model.Artefact, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidArtefactType
	}
	artefact, err := s.ArtefactRepo.FindByID(artefactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrArtefactNotFound
		}
		return nil, err
	}
	if _, err := s.ownedAttempt(userID, artefact.PodAttemptID); err != nil {
		return nil, err
	}

	artefact.Type = input.Type
	artefact.Content = input.Content
	artefact.URL = input.URL
	artefact.FileID = input.FileID
	if err := s.ArtefactRepo.Save(artefact); err != nil {
		return nil, err
	}
	return artefact, nil
}

func (s *ArtefactService) Delete(userID, artefactID string) error {
	artefact, err := s.ArtefactRepo.FindByID(artefactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrArtefactNotFound
		}
		return err
	}
	if _, err := s.ownedAttempt(userID, artefact.PodAttemptID); err != nil {
		return err
	}
	return s.ArtefactRepo.Delete(artefactID)
}
