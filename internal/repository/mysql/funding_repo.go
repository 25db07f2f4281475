package mysql

import (
	"context"
	"strings"
	"time"

	"Fundingift/internal/model"

	"gorm.io/gorm"
)

// likeEscaper 关键字按字面量匹配，% 和 _ 不当通配符
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type FundingRepository struct {
	DB *gorm.DB
}

// FundingFilter 列表查询条件
type FundingFilter struct {
	Keyword    string // 按商品名模糊匹配，空串不过滤
	PublicOnly bool   // true 时只查 is_private = false
}

// Transaction 在同一个事务里执行 fn，fn 拿到的是绑定事务的仓储
func (r *FundingRepository) Transaction(ctx context.Context, fn func(tx *FundingRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FundingRepository{DB: tx})
	})
}

// Create 写 funding，同一事务写通知 outbox
func (r *FundingRepository) Create(ctx context.Context, f *model.Funding, outbox []model.NotificationOutbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Consumer", "Product").Create(f).Error; err != nil {
			return err
		}
		if len(outbox) == 0 {
			return nil
		}
		for i := range outbox {
			outbox[i].FundingID = f.ID
		}
		return tx.Create(&outbox).Error
	})
}

// FindLive 未软删除的 funding，顺带加载发起人和商品
func (r *FundingRepository) FindLive(ctx context.Context, id uint64) (*model.Funding, bool, error) {
	var f model.Funding
	err := r.DB.WithContext(ctx).
		Preload("Consumer").
		Preload("Product").
		First(&f, id).Error
	return found(&f, err)
}

// SoftDelete 写 deleted_at，不做物理删除
func (r *FundingRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.Funding{}, id).Error
}

// SliceByOwners 按创建时间倒序分页，多取一条判断是否还有下一页
func (r *FundingRepository) SliceByOwners(ctx context.Context, ownerIDs []uint64, filter FundingFilter, page model.PageRequest) (model.Slice[model.Funding], error) {
	page = page.Normalize()
	if len(ownerIDs) == 0 {
		return model.SliceOf[model.Funding](nil, page), nil
	}

	q := r.DB.WithContext(ctx).Model(&model.Funding{}).
		Where("funding.consumer_id IN ?", ownerIDs)
	if filter.PublicOnly {
		q = q.Where("funding.is_private = ?", false)
	}
	if filter.Keyword != "" {
		q = q.Joins("JOIN product ON product.id = funding.product_id").
			Where("product.name LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(filter.Keyword)+"%")
	}

	var rows []model.Funding
	err := q.Preload("Consumer").
		Preload("Product").
		Order("funding.created_at DESC, funding.id DESC").
		Offset(page.Offset()).
		Limit(page.Size + 1).
		Find(&rows).Error
	if err != nil {
		return model.Slice[model.Funding]{}, err
	}
	return model.SliceOf(rows, page), nil
}

// ListInMonth 纪念日落在 year-month 内的 funding
func (r *FundingRepository) ListInMonth(ctx context.Context, ownerID uint64, from, to time.Time, publicOnly bool) ([]model.Funding, error) {
	q := r.DB.WithContext(ctx).
		Where("consumer_id = ? AND anniversary_date >= ? AND anniversary_date < ?", ownerID, from, to)
	if publicOnly {
		q = q.Where("is_private = ?", false)
	}
	var rows []model.Funding
	err := q.Preload("Consumer").
		Order("anniversary_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// ListInProgress 进行中的 funding，按开始日期升序
func (r *FundingRepository) ListInProgress(ctx context.Context, ownerID uint64, publicOnly bool) ([]model.Funding, error) {
	q := r.DB.WithContext(ctx).
		Where("consumer_id = ? AND status = ?", ownerID, model.FundingInProgress)
	if publicOnly {
		q = q.Where("is_private = ?", false)
	}
	var rows []model.Funding
	err := q.Preload("Consumer").
		Preload("Product").
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
