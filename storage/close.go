package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/storage/database"
	"CommunitySpaces/storage/mq"
	"CommunitySpaces/storage/redis"
)

// Close 按 MQ -> Redis -> Database 的顺序关闭连接，先停止收发消息，最后释放数据库。
func Close(ctx context.Context) error {
	logger.Logger.Info("Closing storage connections...")

	closers := []struct {
		name  string
		close func(context.Context) error
	}{
		{"rabbitmq", mq.Close},
		{"redis", redis.Close},
		{"postgres", database.Close},
	}

	var errs []error
	for _, c := range closers {
		if err := c.close(ctx); err != nil {
			logger.Logger.Error("Failed to close storage", zap.String("component", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
			continue
		}
		logger.Logger.Info("Storage closed", zap.String("component", c.name))
	}

	return errors.Join(errs...)
}
