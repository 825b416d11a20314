package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/catalog"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/storage/database"
	"CommunitySpaces/storage/mq"
)

const processedTTL = 24 * time.Hour

// Deduper 消息幂等标记
type Deduper interface {
	TryMarkProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
	Unmark(ctx context.Context, messageID string) error
}

// ProfileOnboardedHandler 将引导中选择的空间写入 space_members
type ProfileOnboardedHandler struct {
	members    repository.SpaceMemberRepository
	dedupe     Deduper
	invalidate func(ctx context.Context) error
	log        *zap.Logger
}

func NewProfileOnboardedHandler(members repository.SpaceMemberRepository, dedupe Deduper, invalidate func(ctx context.Context) error) *ProfileOnboardedHandler {
	return &ProfileOnboardedHandler{
		members:    members,
		dedupe:     dedupe,
		invalidate: invalidate,
		log:        logger.Named("queue.profile_onboarded"),
	}
}

// Handle 处理单条 profile.onboarded 消息
func (h *ProfileOnboardedHandler) Handle(ctx context.Context, body []byte) error {
	var msg model.ProfileOnboardedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// 无法解析的消息重试也没有意义
		h.log.Error("Dropping malformed profile onboarded message", zap.Error(err))
		return nil
	}

	if msg.MessageID != "" {
		first, err := h.dedupe.TryMarkProcessing(ctx, msg.MessageID, processedTTL)
		if err != nil {
			// 标记失败不阻塞业务，写入本身是幂等的
			h.log.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !first {
			h.log.Info("Message already processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}
	}

	spaceIDs := make([]string, 0, len(msg.JoinedSpaceIDs))
	for _, id := range msg.JoinedSpaceIDs {
		if !catalog.HasSpace(id) {
			h.log.Warn("Ignoring unknown space in onboarded message",
				zap.String("message_id", msg.MessageID),
				zap.String("space_id", id),
			)
			continue
		}
		spaceIDs = append(spaceIDs, id)
	}

	added, err := h.members.AddMembers(ctx, msg.ProfileID, spaceIDs)
	if err != nil {
		if msg.MessageID != "" {
			_ = h.dedupe.Unmark(ctx, msg.MessageID)
		}
		return fmt.Errorf("apply space memberships: %w", err)
	}

	if added > 0 && h.invalidate != nil {
		if err := h.invalidate(ctx); err != nil {
			h.log.Warn("Failed to invalidate space member counts", zap.Error(err))
		}
	}

	h.log.Info("Applied space memberships",
		zap.String("message_id", msg.MessageID),
		zap.Int64("profile_id", msg.ProfileID),
		zap.Int64("added", added),
	)
	return nil
}

// StartProfileOnboardedConsumer 阻塞消费直到 ctx 取消
func StartProfileOnboardedConsumer(ctx context.Context) error {
	h := NewProfileOnboardedHandler(
		repository.NewSpaceMemberRepository(database.DB()),
		cache.MessageDeduper{},
		func(ctx context.Context) error {
			return cache.SpaceMemberCountCache.Delete(ctx, cache.SpaceMemberCountKey)
		},
	)

	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueProfileOnboarded,
		ConsumerTag:   "profile-onboarded-worker",
		PrefetchCount: 16,
		Handler:       h.Handle,
	})
}
