package model

import "gorm.io/datatypes"

type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	}
	return false
}

// swagger:model UserProfile
type UserProfile struct {
	UUIDBase
	UserID             string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"userId"`
	Email              string           `gorm:"size:255" json:"email"`
	Username           string           `gorm:"size:100" json:"username"`
	FirstName          string           `gorm:"size:100" json:"firstName"`
	LastName           string           `gorm:"size:100" json:"lastName"`
	AvatarURL          string           `gorm:"size:512" json:"avatarUrl"`
	Bio                string           `gorm:"type:text" json:"bio"`
	Location           string           `gorm:"size:255" json:"location"`
	GithubURL          string           `gorm:"size:512" json:"githubUrl"`
	LinkedinURL        string           `gorm:"size:512" json:"linkedinUrl"`
	WebsiteURL         string           `gorm:"size:512" json:"websiteUrl"`
	Theme              string           `gorm:"size:10;default:'system'" json:"theme"` // light | dark | system
	Language           string           `gorm:"size:10;default:'en-US'" json:"language"`
	Timezone           string           `gorm:"size:64;default:'UTC'" json:"timezone"`
	EmailNotifications datatypes.JSON   `json:"emailNotifications"`
	InAppNotifications datatypes.JSON   `json:"inAppNotifications"`
	ProfileVisibility  string           `gorm:"size:20;default:'public'" json:"profileVisibility"` // public | private | unlisted
	ShowEmail          bool             `gorm:"default:false" json:"showEmail"`
	ShowSocialLinks    bool             `gorm:"default:true" json:"showSocialLinks"`
	Role               string           `gorm:"size:20" json:"role"`
	SubscriptionTier   SubscriptionTier `gorm:"size:20;default:'free';index" json:"subscriptionTier"`
	APIKeyHash         string           `gorm:"size:100" json:"-"`
	APIEnabled         bool             `gorm:"default:false" json:"apiEnabled"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
