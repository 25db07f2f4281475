package model

import (
	"time"

	"gorm.io/gorm"
)

// FundingStatus 众筹状态
type FundingStatus string

const (
	FundingPreProgress FundingStatus = "PRE_PROGRESS" // 未开始
	FundingInProgress  FundingStatus = "IN_PROGRESS"  // 进行中
	FundingSuccess     FundingStatus = "SUCCESS"      // 终态，本服务不产生
	FundingFailed      FundingStatus = "FAILED"       // 终态，本服务不产生
)

// Funding 纪念日众筹，日期字段统一存 UTC 零点
type Funding struct {
	ID                    uint64         `gorm:"primaryKey" json:"id"`
	ConsumerID            uint64         `gorm:"not null;index:idx_funding_owner_time,priority:1" json:"consumer_id"`
	ProductID             uint64         `gorm:"not null" json:"product_id"`
	ProductOptionID       uint64         `gorm:"not null" json:"product_option_id"`
	AnniversaryCategoryID uint64         `gorm:"not null" json:"anniversary_category_id"`
	Title                 string         `gorm:"size:100" json:"title"`
	Content               string         `gorm:"type:text" json:"content"`
	StartDate             time.Time      `gorm:"type:date;not null" json:"start_date"`
	AnniversaryDate       time.Time      `gorm:"type:date;not null;index" json:"anniversary_date"`
	EndDate               time.Time      `gorm:"type:date;not null" json:"end_date"`
	IsPrivate             bool           `gorm:"not null;default:false" json:"is_private"`
	Status                FundingStatus  `gorm:"size:16;not null;index" json:"status"`
	CreatedAt             time.Time      `gorm:"index:idx_funding_owner_time,priority:2,sort:desc" json:"created_at"`
	UpdatedAt             time.Time      `json:"-"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	Consumer *Consumer `gorm:"foreignKey:ConsumerID" json:"consumer,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Funding) TableName() string { return "funding" }

// Deletable 只有未开始的 funding 才能删除
func (f *Funding) Deletable() bool {
	return f.Status == FundingPreProgress
}
