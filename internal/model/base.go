package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDBase 所有表的公共字段。主键为字符串 uuid，
// 删除为软删除，内容级联时历史进度仍可回查。
// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
