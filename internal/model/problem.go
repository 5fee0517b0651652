package model

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// SkillWeight 技能权重
type SkillWeight struct {
	SkillID string  `json:"skillId"`
	Weight  float64 `json:"weight"`
}

// PodRef Problem 内按顺序引用的 Pod
type PodRef struct {
	PodID  string  `json:"podId"`
	Order  int     `json:"order"`
	Weight float64 `json:"weight"`
}

// swagger:model Problem
type Problem struct {
	UUIDBase
	Slug           string        `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title          string        `gorm:"size:255;not null" json:"title"`
	Description    string        `gorm:"type:text" json:"description"`
	DescriptionMD  string        `gorm:"type:text" json:"descriptionMd"`
	Tagline        string        `gorm:"size:255" json:"tagline"`
	ContextMD      string        `gorm:"type:text" json:"contextMd"`
	Difficulty     Difficulty    `gorm:"size:20;index;not null" json:"difficulty"`
	EstimatedHours float64       `gorm:"not null" json:"estimatedHours"`
	Skills         []SkillWeight `gorm:"serializer:json" json:"skills"`
	Version        int           `gorm:"default:1" json:"version"`
	IsPublic       bool          `gorm:"default:false;index" json:"isPublic"`
	Pods           []PodRef      `gorm:"serializer:json" json:"pods"`
}

func (Problem) TableName() string {
	return "problems"
}
