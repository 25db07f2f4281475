package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
)

const (
	SessionTokenPrefix = "login:consumer:token"
	SessionTokenExpire = 60 * 30
)

// SessionRepository 登录会话由身份服务写入，本服务只校验和续期
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func (r *SessionRepository) key(consumerID uint64) string {
	return fmt.Sprintf("%s:%d", SessionTokenPrefix, consumerID)
}

func (r *SessionRepository) SetToken(ctx context.Context, consumerID uint64, token string) error {
	if err := r.rdb.Set(ctx, r.key(consumerID), token, time.Second*SessionTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) GetToken(ctx context.Context, consumerID uint64) (string, error) {
	token, err := r.rdb.Get(ctx, r.key(consumerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *SessionRepository) ExtendToken(ctx context.Context, consumerID uint64) error {
	if err := r.rdb.Expire(ctx, r.key(consumerID), time.Second*SessionTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}
