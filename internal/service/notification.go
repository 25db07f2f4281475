package service

import (
	"context"
	"fmt"

	"Fundingift/internal/model"
	"Fundingift/internal/repository/mysql"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const FundingCreatedTitle = "New funding"

// FundingCreatedBody 通知正文模板
func FundingCreatedBody(ownerName string) string {
	return fmt.Sprintf("%s registered a funding!", ownerName)
}

// NotificationFanout 计算受众并生成 outbox 记录，真正投递由 OutboxRelayer 异步完成
type NotificationFanout struct {
	friends   *FriendService
	consumers *mysql.ConsumerRepository
	log       *zap.Logger
}

func NewNotificationFanout(db *gorm.DB, friends *FriendService, log *zap.Logger) *NotificationFanout {
	return &NotificationFanout{
		friends:   friends,
		consumers: &mysql.ConsumerRepository{DB: db},
		log:       log,
	}
}

// Audience 把 owner 设为亲密好友、且未注销的用户
func (n *NotificationFanout) Audience(ctx context.Context, ownerID uint64) ([]model.Consumer, error) {
	ids, err := n.friends.FavoritesOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := n.consumers.FindLiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load audience of %d: %w", ownerID, err)
	}
	return list, nil
}

// FundingCreated 每个接收者一条 outbox；受众查询失败只记日志，不影响创建
func (n *NotificationFanout) FundingCreated(ctx context.Context, owner *model.Consumer) []model.NotificationOutbox {
	audience, err := n.Audience(ctx, owner.ID)
	if err != nil {
		n.log.Warn("notification audience lookup failed", zap.Uint64("owner_id", owner.ID), zap.Error(err))
		return nil
	}
	rows := make([]model.NotificationOutbox, 0, len(audience))
	for _, c := range audience {
		rows = append(rows, model.NotificationOutbox{
			EventID:     uuid.NewString(),
			EventType:   model.EventFundingCreated,
			RecipientID: c.ID,
			OwnerID:     owner.ID,
			Title:       FundingCreatedTitle,
			Body:        FundingCreatedBody(owner.Name),
			Status:      model.OutboxPending,
		})
	}
	return rows
}
