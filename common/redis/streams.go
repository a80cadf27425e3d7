package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// StreamAdder XADD 的最小接口（*redis.Client 满足，测试可替换）
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// PublishJSONToStream 发布 JSON 消息到 Redis Streams
// 消息字段: data（JSON 字符串）、timestamp（Unix 秒）
// maxLen > 0 时按近似长度裁剪 stream
func PublishJSONToStream(ctx context.Context, client StreamAdder, stream string, maxLen int64, data any) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"data":      string(jsonBytes),
			"timestamp": time.Now().Unix(),
		},
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}

	return client.XAdd(ctx, args).Result()
}
