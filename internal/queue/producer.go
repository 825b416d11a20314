package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CommunitySpaces/internal/model"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/storage/mq"
)

// NewProfileOnboardedMessage 由新建的资料构造消息，MessageID 随机生成。
func NewProfileOnboardedMessage(p *model.Profile, now time.Time) model.ProfileOnboardedMessage {
	return model.ProfileOnboardedMessage{
		MessageID:      uuid.NewString(),
		ProfileID:      p.ID,
		PublicID:       p.PublicID,
		Handle:         p.Handle,
		Interests:      append([]string(nil), p.Interests...),
		JoinedSpaceIDs: append([]string(nil), p.JoinedSpaces...),
		OccurredAt:     now.UTC().Format(time.RFC3339),
	}
}

// Producer 向 community.topic 投递领域事件
type Producer struct{}

// PublishProfileOnboarded 发布引导完成消息
func (Producer) PublishProfileOnboarded(ctx context.Context, msg model.ProfileOnboardedMessage) error {
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}

	err := mq.PublishMessage(ctx, mq.ExchangeCommunity, mq.RoutingProfileOnboarded, msg.MessageID, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish profile onboarded message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("profile_id", msg.ProfileID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published profile onboarded message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("profile_id", msg.ProfileID),
		zap.Int("spaces", len(msg.JoinedSpaceIDs)),
	)
	return nil
}
