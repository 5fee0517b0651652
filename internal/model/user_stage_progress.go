package model

import "time"

type StageStatus string

const (
	StageLocked     StageStatus = "locked"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
)

// PracticeProblemAttempt 练习题作答记录，嵌入在进度文档中
type PracticeProblemAttempt struct {
	ProblemID   string    `json:"problemId"`
	UserAnswer  string    `json:"userAnswer"`
	IsCorrect   bool      `json:"isCorrect"`
	Attempts    int       `json:"attempts"`
	TimeSpent   int       `json:"timeSpent"`
	CompletedAt time.Time `json:"completedAt"`
}

// MCQAttempt 选择题作答记录，嵌入在进度文档中
type MCQAttempt struct {
	QuestionID       string    `json:"questionId"`
	SelectedOptionID string    `json:"selectedOptionId"`
	IsCorrect        bool      `json:"isCorrect"`
	TimeSpent        int       `json:"timeSpent"`
	CompletedAt      time.Time `json:"completedAt"`
}

// swagger:model UserStageProgress
type UserStageProgress struct {
	UUIDBase
	UserID                  string                   `gorm:"type:varchar(64);index;not null" json:"userId"`
	StageID                 string                   `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_stage_progress_attempt_stage" json:"stageId"`
	PodAttemptID            string                   `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_stage_progress_attempt_stage" json:"podAttemptId"`
	Status                  StageStatus              `gorm:"size:20;default:'locked'" json:"status"`
	StartedAt               *time.Time               `json:"startedAt,omitempty"`
	CompletedAt             *time.Time               `json:"completedAt,omitempty"`
	TimeSpent               int                      `gorm:"default:0" json:"timeSpent"` // 分钟
	LastAccessedAt          *time.Time               `json:"lastAccessedAt,omitempty"`
	PracticeProblemAttempts []PracticeProblemAttempt `gorm:"serializer:json" json:"practiceProblemAttempts"`
	MCQAttempts             []MCQAttempt             `gorm:"serializer:json" json:"mcqAttempts"`
	AssessmentScore         *int                     `json:"assessmentScore,omitempty"`
	MaxAssessmentScore      int                      `gorm:"default:100" json:"maxAssessmentScore"`
	ResourcesViewed         []string                 `gorm:"serializer:json" json:"resourcesViewed"`
	CaseStudiesViewed       []string                 `gorm:"serializer:json" json:"caseStudiesViewed"`
	Notes                   string                   `gorm:"type:text" json:"notes,omitempty"`
}

func (UserStageProgress) TableName() string {
	return "user_stage_progress"
}

// FindPracticeAttempt 按练习题 ID 查找已有作答记录
func (p *UserStageProgress) FindPracticeAttempt(problemID string) *PracticeProblemAttempt {
	for i := range p.PracticeProblemAttempts {
		if p.PracticeProblemAttempts[i].ProblemID == problemID {
			return &p.PracticeProblemAttempts[i]
		}
	}
	return nil
}

// FindMCQAttempt 按题目 ID 查找已有作答记录
func (p *UserStageProgress) FindMCQAttempt(questionID string) *MCQAttempt {
	for i := range p.MCQAttempts {
		if p.MCQAttempts[i].QuestionID == questionID {
			return &p.MCQAttempts[i]
		}
	}
	return nil
}
