package model

import "time"

type AttemptStatus string

const (
	AttemptActive    AttemptStatus = "active"
	AttemptCompleted AttemptStatus = "completed"
	AttemptAbandoned AttemptStatus = "abandoned"
)

// swagger:model ProblemAttempt
type ProblemAttempt struct {
	UUIDBase
	UserID      string        `gorm:"type:varchar(64);index:idx_problem_attempts_user_problem;not null" json:"userId"`
	ProblemID   string        `gorm:"type:varchar(36);index:idx_problem_attempts_user_problem;not null" json:"problemId"`
	Status      AttemptStatus `gorm:"size:20;index;default:'active'" json:"status"`
	StartedAt   time.Time     `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

func (ProblemAttempt) TableName() string {
	return "problem_attempts"
}

// swagger:model PodAttempt
type PodAttempt struct {
	UUIDBase
	UserID           string        `gorm:"type:varchar(64);index;not null;uniqueIndex:idx_pod_attempts_active" json:"userId"`
	ProblemAttemptID string        `gorm:"type:varchar(36);index;not null" json:"problemAttemptId"`
	PodID            string        `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_pod_attempts_active" json:"podId"`
	Status           AttemptStatus `gorm:"size:20;index;default:'active'" json:"status"`
	// MySQL 没有部分唯一索引：active 状态时置 1 参与唯一索引，
	// 完成后置 NULL，同一 (user, pod) 即可保留多条历史记录。
	ActiveMark  *int8      `gorm:"uniqueIndex:idx_pod_attempts_active" json:"-"`
	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (PodAttempt) TableName() string {
	return "pod_attempts"
}

// MarkActive 设置 active 状态及唯一索引标记
func (a *PodAttempt) MarkActive() {
	one := int8(1)
	a.Status = AttemptActive
	a.ActiveMark = &one
}

// MarkCompleted 结束 attempt 并释放唯一索引槽位
func (a *PodAttempt) MarkCompleted(at time.Time) {
	a.Status = AttemptCompleted
	a.ActiveMark = nil
	a.CompletedAt = &at
}
