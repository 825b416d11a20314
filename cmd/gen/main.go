package main

import (
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/logger"
)

// 根据 storage/database 中注册的模型生成 internal/repository/query
func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
