package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
)

type Options struct {
	Addr     string // 例如 "127.0.0.1:6379"
	Password string
	DB       int
	PoolSize int
}

// Open 建立连接并 Ping 一次，失败时关闭客户端
func Open(ctx context.Context, opt Options) (*redis.Client, error) {
	if opt.PoolSize <= 0 {
		opt.PoolSize = 10
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         opt.Addr,
		Password:     opt.Password,
		DB:           opt.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     opt.PoolSize,
		MinIdleConns: opt.PoolSize / 5,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Init 打开连接并赋值给全局 Client
func Init(ctx context.Context, opt Options) error {
	rdb, err := Open(ctx, opt)
	if err != nil {
		return err
	}
	Client = rdb
	return nil
}

// Close 程序退出时调用
func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
