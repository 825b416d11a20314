package cache

import (
	"context"
	"errors"
	"time"

	ri "github.com/redis/go-redis/v9"

	"CommunitySpaces/storage/redis"
)

const tokenPrefix = "token"

// RefreshTokenStore 每个成员只保留最近签发的 refresh token，刷新时轮换。
type RefreshTokenStore struct {
	ttl time.Duration
}

func NewRefreshTokenStore(ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{ttl: ttl}
}

// Key: cs:token:refresh:{profile_public_id}
func (s *RefreshTokenStore) Set(ctx context.Context, subject, refreshToken string) error {
	return redis.Client().Set(ctx, redis.Key(tokenPrefix, "refresh", subject), refreshToken, s.ttl).Err()
}

// Matches 检查 refresh token 是否为当前有效的那一个
func (s *RefreshTokenStore) Matches(ctx context.Context, subject, refreshToken string) (bool, error) {
	stored, err := redis.Client().Get(ctx, redis.Key(tokenPrefix, "refresh", subject)).Result()
	if errors.Is(err, ri.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == refreshToken, nil
}

func (s *RefreshTokenStore) Delete(ctx context.Context, subject string) error {
	return redis.Client().Del(ctx, redis.Key(tokenPrefix, "refresh", subject)).Err()
}
