package middleware

import (
	"go.uber.org/zap"

	"CommunitySpaces/pkg/logger"
)

// Init 初始化需要预先构建的中间件，须在 token.Init 之后调用
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
