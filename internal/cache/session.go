package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ri "github.com/redis/go-redis/v9"

	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/storage/redis"
)

const onboardingSessionPrefix = "onboarding:session"

// OnboardingSession Redis 中保存的引导会话
type OnboardingSession struct {
	State     onboarding.State `json:"state"`
	StartedAt time.Time        `json:"started_at"`
}

// OnboardingSessionStore 每次写入都会续期，闲置超过 ttl 的会话自动失效。
type OnboardingSessionStore struct {
	ttl time.Duration
}

func NewOnboardingSessionStore(ttl time.Duration) *OnboardingSessionStore {
	return &OnboardingSessionStore{ttl: ttl}
}

func (s *OnboardingSessionStore) Save(ctx context.Context, id string, sess OnboardingSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal onboarding session: %w", err)
	}
	return redis.Client().Set(ctx, redis.Key(onboardingSessionPrefix, id), data, s.ttl).Err()
}

func (s *OnboardingSessionStore) Load(ctx context.Context, id string) (OnboardingSession, bool, error) {
	data, err := redis.Client().Get(ctx, redis.Key(onboardingSessionPrefix, id)).Bytes()
	if errors.Is(err, ri.Nil) {
		return OnboardingSession{}, false, nil
	}
	if err != nil {
		return OnboardingSession{}, false, fmt.Errorf("get onboarding session: %w", err)
	}

	var sess OnboardingSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return OnboardingSession{}, false, fmt.Errorf("unmarshal onboarding session: %w", err)
	}
	return sess, true, nil
}

func (s *OnboardingSessionStore) Delete(ctx context.Context, id string) error {
	return redis.Client().Del(ctx, redis.Key(onboardingSessionPrefix, id)).Err()
}
