package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	ri "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/storage/redis"
)

const (
	// 空值缓存标识
	emptyValueFlag = "__EMPTY__"
	// 空值缓存TTL，较短时间避免长期占用
	emptyValueTTL = 1 * time.Minute
	// 防雪崩随机延迟范围
	breakerRandomDelayMax = 20 * time.Millisecond
)

// ProtectedCache 带空值保护、随机延迟与熔断的缓存包装器
type ProtectedCache struct {
	keyPrefix string
	ttl       time.Duration
	emptyTTL  time.Duration
	jitter    time.Duration
	breaker   *CircuitBreaker
}

// NewProtectedCache 创建受保护的缓存实例
func NewProtectedCache(keyPrefix string, ttl time.Duration) *ProtectedCache {
	return &ProtectedCache{
		keyPrefix: keyPrefix,
		ttl:       ttl,
		emptyTTL:  emptyValueTTL,
		jitter:    breakerRandomDelayMax,
		breaker:   NewCircuitBreaker(keyPrefix, 5, 30*time.Second),
	}
}

// Set 写入缓存，value 为 nil 时写入空值标识
func (pc *ProtectedCache) Set(ctx context.Context, key string, value interface{}) error {
	cacheKey := redis.Key(pc.keyPrefix, key)

	data := emptyValueFlag
	ttl := pc.emptyTTL
	if value != nil {
		dataBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
		data = string(dataBytes)
		ttl = pc.ttl
	}

	return pc.breaker.Call(func() error {
		return redis.Client().Set(ctx, cacheKey, data, ttl).Err()
	})
}

// Get 读取缓存。hit 为 true 且 empty 为 true 表示命中空值。
func (pc *ProtectedCache) Get(ctx context.Context, key string, dest interface{}) (hit bool, empty bool, err error) {
	cacheKey := redis.Key(pc.keyPrefix, key)

	if err := pc.addBreakerDelay(ctx); err != nil {
		return false, false, err
	}

	var data string
	err = pc.breaker.Call(func() error {
		var getErr error
		data, getErr = redis.Client().Get(ctx, cacheKey).Result()
		if errors.Is(getErr, ri.Nil) {
			return nil
		}
		return getErr
	})
	if err != nil {
		return false, false, fmt.Errorf("failed to get cache: %w", err)
	}

	if data == "" {
		return false, false, nil
	}
	if data == emptyValueFlag {
		return true, true, nil
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		logger.Logger.Warn("Dropping undecodable cache entry",
			zap.String("prefix", pc.keyPrefix),
			zap.Error(err),
		)
		_ = pc.Delete(ctx, key)
		return false, false, nil
	}

	return true, false, nil
}

// Delete 删除缓存
func (pc *ProtectedCache) Delete(ctx context.Context, key string) error {
	cacheKey := redis.Key(pc.keyPrefix, key)
	return redis.Client().Del(ctx, cacheKey).Err()
}

func (pc *ProtectedCache) addBreakerDelay(ctx context.Context) error {
	if pc.jitter <= 0 {
		return nil
	}

	delay := time.Duration(rand.Int63n(int64(pc.jitter)))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
