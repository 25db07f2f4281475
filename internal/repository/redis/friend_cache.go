package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Fundingift/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEdgeTTL      = 24 * time.Hour
	FriendEdgeKeyPrefix = "friend:edge"    // string: friend:edge:{from}:{to}
	FriendVerKeyPrefix  = "friend:edgever" // counter: friend:edgever:{from}:{to}，每次失效 +1
)

// EdgeState 缓存里的边状态，连"不存在"也缓存，避免非好友反复穿透
type EdgeState string

const (
	EdgeAbsent   EdgeState = "0"
	EdgeFriend   EdgeState = "1"
	EdgeFavorite EdgeState = "2"
)

func EdgeStateOf(f *model.Friend) EdgeState {
	switch {
	case f == nil:
		return EdgeAbsent
	case f.IsFavorite:
		return EdgeFavorite
	default:
		return EdgeFriend
	}
}

var errStaleVersion = errors.New("friend edge version changed")

// FriendCacheRepository 好友边读缓存，数据库是唯一真实来源。
// 每条边一个 key，各自过期；回填必须带上读库前拿到的版本号，
// 期间有写入失效过就放弃回填。
type FriendCacheRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFriendCacheRepository rdb 为 nil 时所有操作都是空操作
func NewFriendCacheRepository(rdb *redis.Client, ttl time.Duration) *FriendCacheRepository {
	if ttl <= 0 {
		ttl = DefaultEdgeTTL
	}
	return &FriendCacheRepository{rdb: rdb, ttl: ttl}
}

func (r *FriendCacheRepository) edgeKey(key model.FriendKey) string {
	return fmt.Sprintf("%s:%d:%d", FriendEdgeKeyPrefix, key.From, key.To)
}

func (r *FriendCacheRepository) verKey(key model.FriendKey) string {
	return fmt.Sprintf("%s:%d:%d", FriendVerKeyPrefix, key.From, key.To)
}

// 版本号要比缓存值活得久，否则过期后归零可能和旧版本撞上
func (r *FriendCacheRepository) verTTL() time.Duration {
	return 2 * r.ttl
}

// Get 命中返回 (state, true)
func (r *FriendCacheRepository) Get(ctx context.Context, key model.FriendKey) (EdgeState, bool, error) {
	if r == nil || r.rdb == nil {
		return EdgeAbsent, false, nil
	}
	v, err := r.rdb.Get(ctx, r.edgeKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return EdgeAbsent, false, nil
	}
	if err != nil {
		return EdgeAbsent, false, err
	}
	return EdgeState(v), true, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, c getter, k string) (int64, error) {
	v, err := c.Get(ctx, k).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Version 读库之前调用，结果交给 Fill
func (r *FriendCacheRepository) Version(ctx context.Context, key model.FriendKey) (int64, error) {
	if r == nil || r.rdb == nil {
		return 0, nil
	}
	return readVersion(ctx, r.rdb, r.verKey(key))
}

// Fill 版本号没变才回填，返回是否写入
func (r *FriendCacheRepository) Fill(ctx context.Context, key model.FriendKey, state EdgeState, version int64) (bool, error) {
	if r == nil || r.rdb == nil {
		return false, nil
	}
	vk := r.verKey(key)
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readVersion(ctx, tx, vk)
		if err != nil {
			return err
		}
		if cur != version {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, r.edgeKey(key), string(state), r.ttl)
			return nil
		})
		return err
	}, vk)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

// Invalidate 写库成功后删掉缓存并推进版本号，进行中的回填随之作废
func (r *FriendCacheRepository) Invalidate(ctx context.Context, keys ...model.FriendKey) error {
	if r == nil || r.rdb == nil || len(keys) == 0 {
		return nil
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, key := range keys {
			vk := r.verKey(key)
			p.Incr(ctx, vk)
			p.Expire(ctx, vk, r.verTTL())
			p.Del(ctx, r.edgeKey(key))
		}
		return nil
	})
	return err
}
