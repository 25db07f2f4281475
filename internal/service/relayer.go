package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sender 投递一条通知，失败由 relayer 标记，不重试
type Sender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer 从 outbox 表读取待投递通知交给 sender
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger

	mu sync.Mutex
	// 已投递但状态没写进去的行，true 表示投递成功；下次只补写状态，不再投递
	unmarked map[uint64]bool
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, batchSize int, interval time.Duration, log *zap.Logger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: batchSize,
		interval:  interval,
		sender:    sender,
		log:       log,
		unmarked:  make(map[uint64]bool),
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, _, err := r.DrainOnce(ctx); err != nil {
				r.log.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce 投递一批，单条投递失败不影响其他接收者；
// 状态写库失败时停止本批，避免同一行被反复投递
func (r *OutboxRelayer) DrainOnce(ctx context.Context) (sent, failed int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, 0, err
	}
	for i := range rows {
		ob := rows[i]
		if delivered, ok := r.unmarked[ob.ID]; ok {
			if err := r.mark(ctx, ob.ID, delivered); err != nil {
				return sent, failed, err
			}
			delete(r.unmarked, ob.ID)
			continue
		}

		sendErr := r.sender(ctx, &ob)
		if sendErr != nil {
			failed++
			r.log.Warn("notification send failed",
				zap.Uint64("outbox_id", ob.ID),
				zap.Uint64("recipient_id", ob.RecipientID),
				zap.Error(sendErr))
		} else {
			sent++
		}
		if err := r.mark(ctx, ob.ID, sendErr == nil); err != nil {
			r.unmarked[ob.ID] = sendErr == nil
			return sent, failed, err
		}
	}
	return sent, failed, nil
}

func (r *OutboxRelayer) mark(ctx context.Context, id uint64, delivered bool) error {
	var err error
	if delivered {
		err = r.repo.MarkSent(ctx, id)
	} else {
		err = r.repo.MarkFailed(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("outbox %d mark (delivered=%t): %w", id, delivered, err)
	}
	return nil
}
