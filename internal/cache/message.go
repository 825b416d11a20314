package cache

import (
	"context"
	"time"

	"CommunitySpaces/storage/redis"
)

const messagePrefix = "message:processed"

// SpaceMemberCountCache 各空间新增成员数，worker 写入成员关系后失效。
var SpaceMemberCountCache = NewProtectedCache("space:members", time.Minute)

// SpaceMemberCountKey SpaceMemberCountCache 中唯一的键
const SpaceMemberCountKey = "counts"

// MessageDeduper 基于 SetNX 的消息幂等标记
type MessageDeduper struct{}

// TryMarkProcessing 首次标记返回 true，已被处理或正在处理返回 false。
func (MessageDeduper) TryMarkProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	return redis.Client().SetNX(ctx, redis.Key(messagePrefix, messageID), 1, ttl).Result()
}

// Unmark 处理失败时撤销标记，允许重试。
func (MessageDeduper) Unmark(ctx context.Context, messageID string) error {
	return redis.Client().Del(ctx, redis.Key(messagePrefix, messageID)).Err()
}
