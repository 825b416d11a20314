package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"CommunitySpaces/internal/model"
	"CommunitySpaces/pkg/logger"
)

// Models 参与迁移与代码生成的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.Profile{},
		&model.Project{},
		&model.SpaceMember{},
	}
}

// Migrate 运行数据库迁移，创建所有表
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	if err := db.AutoMigrate(Models()...); err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
