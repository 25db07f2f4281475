package mysql

import (
	"context"

	"Fundingift/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository 有向好友边，(consumer_id, to_consumer_id) 为复合主键
type FriendRepository struct {
	DB *gorm.DB
}

// Connect 建立双向好友关系（幂等）。已存在的边保持原有的 favorite 标记
func (r *FriendRepository) Connect(ctx context.Context, a, b uint64) error {
	edges := []model.Friend{
		{ConsumerID: a, ToConsumerID: b},
		{ConsumerID: b, ToConsumerID: a},
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "consumer_id"}, {Name: "to_consumer_id"}},
		DoNothing: true,
	}).Create(&edges).Error
}

// Find 按有向键查询
func (r *FriendRepository) Find(ctx context.Context, key model.FriendKey) (*model.Friend, bool, error) {
	var f model.Friend
	err := r.DB.WithContext(ctx).
		Where("consumer_id = ? AND to_consumer_id = ?", key.From, key.To).
		First(&f).Error
	return found(&f, err)
}

// EdgesFrom consumerID 发出的边，亲密好友在前
func (r *FriendRepository) EdgesFrom(ctx context.Context, consumerID uint64) ([]model.Friend, error) {
	var rows []model.Friend
	err := r.DB.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Order("is_favorite DESC, to_consumer_id ASC").
		Find(&rows).Error
	return rows, err
}

// EdgesTo 指向 consumerID 的边
func (r *FriendRepository) EdgesTo(ctx context.Context, consumerID uint64) ([]model.Friend, error) {
	var rows []model.Friend
	err := r.DB.WithContext(ctx).
		Where("to_consumer_id = ?", consumerID).
		Order("consumer_id ASC").
		Find(&rows).Error
	return rows, err
}

// FavoritesOf 把 target 设为亲密好友的所有人
func (r *FriendRepository) FavoritesOf(ctx context.Context, target uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Friend{}).
		Where("to_consumer_id = ? AND is_favorite = ?", target, true).
		Order("consumer_id ASC").
		Pluck("consumer_id", &ids).Error
	return ids, err
}

// ToggleFavorite 单条 UPDATE 原地取反，返回翻转后的值；边不存在时 found=false
func (r *FriendRepository) ToggleFavorite(ctx context.Context, key model.FriendKey) (favorite bool, ok bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Friend{}).
			Where("consumer_id = ? AND to_consumer_id = ?", key.From, key.To).
			Update("is_favorite", gorm.Expr("NOT is_favorite"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var f model.Friend
		if err := tx.Where("consumer_id = ? AND to_consumer_id = ?", key.From, key.To).First(&f).Error; err != nil {
			return err
		}
		favorite, ok = f.IsFavorite, true
		return nil
	})
	return favorite, ok, err
}

// DeleteAll 删除 consumerID 作为任一端点的全部边，返回被删除的键
func (r *FriendRepository) DeleteAll(ctx context.Context, consumerID uint64) ([]model.FriendKey, error) {
	var keys []model.FriendKey
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.Friend
		if err := tx.Where("consumer_id = ? OR to_consumer_id = ?", consumerID, consumerID).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Where("consumer_id = ? OR to_consumer_id = ?", consumerID, consumerID).
			Delete(&model.Friend{}).Error; err != nil {
			return err
		}
		keys = make([]model.FriendKey, 0, len(rows))
		for _, f := range rows {
			keys = append(keys, f.Key())
		}
		return nil
	})
	return keys, err
}
