package mysql

import (
	"context"

	"Fundingift/internal/model"

	"gorm.io/gorm"
)

type ConsumerRepository struct {
	DB *gorm.DB
}

// FindByID 软删除的用户 gorm 会自动过滤；found=false 表示不存在
func (r *ConsumerRepository) FindByID(ctx context.Context, id uint64) (*model.Consumer, bool, error) {
	var c model.Consumer
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return found(&c, err)
}

// FindLiveByIDs 批量查询未删除的用户，顺序按 id
func (r *ConsumerRepository) FindLiveByIDs(ctx context.Context, ids []uint64) ([]model.Consumer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Consumer
	err := r.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&list).Error
	return list, err
}
