package model

import "time"

const (
	OutboxPending = 0
	OutboxSent    = 1
	OutboxFailed  = 2

	EventFundingCreated = "funding_created"
)

// NotificationOutbox 通知事件表，一个接收者一行，和 funding 同一个事务写入
type NotificationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventID     string `gorm:"size:36;not null;uniqueIndex"`
	EventType   string `gorm:"size:32;not null"`
	RecipientID uint64 `gorm:"not null;index"`
	OwnerID     uint64 `gorm:"not null"`
	FundingID   uint64 `gorm:"not null"`
	Title       string `gorm:"size:100;not null"`
	Body        string `gorm:"size:255;not null"`
	Status      int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
