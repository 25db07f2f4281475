package model

import (
	"fmt"
	"time"
)

// Friend 有向好友边 (consumer_id -> to_consumer_id)，两个方向是两条独立记录
// IsFavorite 表示 consumer_id 把 to_consumer_id 设为亲密好友
type Friend struct {
	ConsumerID   uint64 `gorm:"primaryKey;autoIncrement:false" json:"consumer_id"`
	ToConsumerID uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_friend_to" json:"to_consumer_id"`
	IsFavorite   bool   `gorm:"not null;default:false" json:"is_favorite"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName sets table name for Friend
func (Friend) TableName() string {
	return "friend"
}

func (f Friend) Key() FriendKey {
	return FriendKey{From: f.ConsumerID, To: f.ToConsumerID}
}

// FriendKey 边的复合键，可直接作为 map key
type FriendKey struct {
	From uint64
	To   uint64
}

// Reverse 反向边
func (k FriendKey) Reverse() FriendKey {
	return FriendKey{From: k.To, To: k.From}
}

// String 仅用于日志和缓存 key，不做解析
func (k FriendKey) String() string {
	return fmt.Sprintf("%d->%d", k.From, k.To)
}
