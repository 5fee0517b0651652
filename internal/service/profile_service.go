package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	ProfileRepo *repository.UserProfileRepository
}

func NewProfileService(profileRepo *repository.UserProfileRepository) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo}
}

// GetOwn 返回调用方自己的资料，不存在时 404
func (s *ProfileService) GetOwn(userID string) (*model.UserProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrProfileNotFound
	}
	return profile, nil
}

type ProfileInput struct {
	Email              string         `json:"email"`
	Username           string         `json:"username"`
	FirstName          string         `json:"firstName"`
	LastName           string         `json:"lastName"`
	AvatarURL          string         `json:"avatarUrl"`
	Bio                string         `json:"bio"`
	Location           string         `json:"location"`
	GithubURL          string         `json:"githubUrl"`
	LinkedinURL        string         `json:"linkedinUrl"`
	WebsiteURL         string         `json:"websiteUrl"`
	Theme              string         `json:"theme"`
	Language           string         `json:"language"`
	Timezone           string         `json:"timezone"`
	EmailNotifications datatypes.JSON `json:"emailNotifications"`
	InAppNotifications datatypes.JSON `json:"inAppNotifications"`
	ProfileVisibility  string         `json:"profileVisibility"`
	ShowEmail          *bool          `json:"showEmail"`
	ShowSocialLinks    *bool          `json:"showSocialLinks"`
}

// UpsertOwn 调用方更新自己的资料，不存在则创建
func (s *ProfileService) UpsertOwn(userID string, input ProfileInput) (*model.UserProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.UserProfile{UserID: userID}
	}

	profile.Email = input.Email
	profile.Username = input.Username
	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.AvatarURL = input.AvatarURL
	profile.Bio = input.Bio
	profile.Location = input.Location
	profile.GithubURL = input.GithubURL
	profile.LinkedinURL = input.LinkedinURL
	profile.WebsiteURL = input.WebsiteURL
	if input.Theme != "" {
		profile.Theme = input.Theme
	}
	if input.Language != "" {
		profile.Language = input.Language
	}
	if input.Timezone != "" {
		profile.Timezone = input.Timezone
	}
	if input.EmailNotifications != nil {
		profile.EmailNotifications = input.EmailNotifications
	}
	if input.InAppNotifications != nil {
		profile.InAppNotifications = input.InAppNotifications
	}
	if input.ProfileVisibility != "" {
		profile.ProfileVisibility = input.ProfileVisibility
	}
	if input.ShowEmail != nil {
		profile.ShowEmail = *input.ShowEmail
	}
	if input.ShowSocialLinks != nil {
		profile.ShowSocialLinks = *input.ShowSocialLinks
	}

	if profile.ID != "" {
		err = s.ProfileRepo.Save(profile)
	} else {
		err = s.ProfileRepo.Upsert(profile)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// IssueAPIKey 生成一把新的 API key。明文只在响应里出现一次，库里只存 bcrypt 哈希。
func (s *ProfileService) IssueAPIKey(userID string) (string, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", util.ErrProfileNotFound
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	key := "plk_" + hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	profile.APIKeyHash = string(hash)
	profile.APIEnabled = true
	if err := s.ProfileRepo.Save(profile); err != nil {
		return "", err
	}

	logger.Log.Info("API key 已重新签发", zap.String("userId", userID))
	return key, nil
}

// VerifyAPIKey 校验 API key 是否属于该用户
func (s *ProfileService) VerifyAPIKey(userID, key string) (bool, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return false, err
	}
	if profile == nil || !profile.APIEnabled || profile.APIKeyHash == "" {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(profile.APIKeyHash), []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// --- 管理端用户操作 ---

func (s *ProfileService) ListUsers(page, limit int, filter repository.UserFilter) ([]model.UserProfile, int64, error) {
	return s.ProfileRepo.List(page, limit, filter)
}

func (s *ProfileService) GetUser(id string) (*model.UserProfile, error) {
	profile, err := s.ProfileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateSubscription 修改用户订阅档位，非法档位返回 ErrInvalidTier
func (s *ProfileService) UpdateSubscription(id string, tier model.SubscriptionTier) (*model.UserProfile, error) {
	if !tier.Valid() {
		return nil, util.ErrInvalidTier
	}
	profile, err := s.ProfileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	profile.SubscriptionTier = tier
	if err := s.ProfileRepo.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) DeleteUser(id string) error {
	if _, err := s.ProfileRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.ProfileRepo.Delete(id)
}
