package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
	"Fundingift/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageProducer pkg.KafkaProducer 满足该接口
type MessageProducer interface {
	Send(ctx context.Context, key string, value []byte) error
}

// NotificationMessage 推送给通知网关的消息体
type NotificationMessage struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	RecipientID uint64    `json:"recipient_id"`
	OwnerID     uint64    `json:"owner_id"`
	FundingID   uint64    `json:"funding_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func messageOf(ob *model.NotificationOutbox) NotificationMessage {
	return NotificationMessage{
		EventID:     ob.EventID,
		EventType:   ob.EventType,
		RecipientID: ob.RecipientID,
		OwnerID:     ob.OwnerID,
		FundingID:   ob.FundingID,
		Title:       ob.Title,
		Body:        ob.Body,
		CreatedAt:   ob.CreatedAt,
	}
}

// KafkaSender 以接收者 id 为 key，同一接收者的消息落在同一分区
func KafkaSender(p MessageProducer) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		value, err := json.Marshal(messageOf(ob))
		if err != nil {
			return err
		}
		return p.Send(ctx, pkg.MakeKeyFromID(ob.RecipientID), value)
	}
}

// sendMail 测试里替换
var sendMail = pkg.SendEmail

// EmailSender 按接收者邮箱发送；没有邮箱的接收者视为失败
func EmailSender(db *gorm.DB, cfg pkg.SMTPConfig) Sender {
	consumers := &mysql.ConsumerRepository{DB: db}
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		c, ok, err := consumers.FindByID(ctx, ob.RecipientID)
		if err != nil {
			return err
		}
		if !ok || c.Email == "" {
			return fmt.Errorf("recipient %d has no email", ob.RecipientID)
		}
		return sendMail(cfg, pkg.NotificationMail(cfg, c.Email, ob.Title, ob.Body))
	}
}

// LogSender 默认 sender：只打日志
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		log.Info("OUTBOX SEND",
			zap.String("event_id", ob.EventID),
			zap.String("type", ob.EventType),
			zap.Uint64("recipient_id", ob.RecipientID),
			zap.Uint64("funding_id", ob.FundingID),
			zap.String("body", ob.Body))
		return nil
	}
}
