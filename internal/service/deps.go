package service

import (
	"context"
	"time"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/pkg/token"
)

// SessionStore 引导会话存储，生产环境为 Redis
type SessionStore interface {
	Save(ctx context.Context, id string, sess cache.OnboardingSession) error
	Load(ctx context.Context, id string) (cache.OnboardingSession, bool, error)
	Delete(ctx context.Context, id string) error
}

// Locker 短期互斥锁
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (owner string, ok bool, err error)
	Unlock(ctx context.Context, key, owner string) error
}

// EventPublisher 领域事件投递
type EventPublisher interface {
	PublishProfileOnboarded(ctx context.Context, msg model.ProfileOnboardedMessage) error
}

// TokenIssuer 令牌签发与校验
type TokenIssuer interface {
	Issue(subject string) (token.Pair, error)
	ParseRefresh(tokenString string) (string, error)
}

// RefreshStore 当前有效的 refresh token
type RefreshStore interface {
	Set(ctx context.Context, subject, refreshToken string) error
	Matches(ctx context.Context, subject, refreshToken string) (bool, error)
	Delete(ctx context.Context, subject string) error
}

// ObjectCache 带空值保护的 JSON 缓存
type ObjectCache interface {
	Get(ctx context.Context, key string, dest interface{}) (hit bool, empty bool, err error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

type redisLocker struct{}

func (redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	return cache.TryLock(ctx, key, ttl)
}

func (redisLocker) Unlock(ctx context.Context, key, owner string) error {
	return cache.Unlock(ctx, key, owner)
}
