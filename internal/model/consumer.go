package model

import (
	"time"

	"gorm.io/gorm"
)

// Consumer 由身份服务维护，本服务只读
type Consumer struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:64;not null" json:"name"`
	Email     string         `gorm:"size:128" json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Consumer) TableName() string { return "consumer" }
