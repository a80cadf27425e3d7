package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/JakeSchindel1/JHOnboard-sub001/common/config"

	"github.com/go-redis/redis/v8"
)

// Client Redis客户端类型别名
type Client = redis.Client

// defaultDialTimeout 连接探测超时，Redis 只承载会话数据，不值得长时间阻塞启动
const defaultDialTimeout = 3 * time.Second

func options(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: defaultDialTimeout,
	}
}

// Connect 建立连接并 PING 一次；失败时关闭客户端并返回错误，调用方可退回内存存储
func Connect(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	c := redis.NewClient(options(cfg))
	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return c, nil
}

// Close 关闭Redis连接
func Close(client *Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
