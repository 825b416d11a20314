package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	ri "github.com/redis/go-redis/v9"

	"CommunitySpaces/storage/redis"
)

const lockPrefix = "lock"

// 只删除自己持有的锁
var unlockScript = ri.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock 基于 SetNX 的分布式锁，返回用于解锁的持有者标识。
func TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	fullKey := redis.Key(lockPrefix, key)
	owner := uuid.NewString()

	ok, err := redis.Client().SetNX(ctx, fullKey, owner, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return owner, true, nil
}

// Unlock 释放锁；锁已过期或被他人持有时不做任何事。
func Unlock(ctx context.Context, key, owner string) error {
	fullKey := redis.Key(lockPrefix, key)
	return unlockScript.Run(ctx, redis.Client(), []string{fullKey}, owner).Err()
}
