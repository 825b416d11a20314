package storage

import (
	"CommunitySpaces/storage/database"
	"CommunitySpaces/storage/mq"
	"CommunitySpaces/storage/redis"
)

// Init 依次初始化数据库、Redis 与 RabbitMQ。
func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := mq.Init(); err != nil {
		return err
	}

	return nil
}
