package database

import (
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"CommunitySpaces/config"
	"CommunitySpaces/pkg/logger"
)

func newLogger() gormlogger.Interface {
	return gormlogger.New(zapWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(config.Cfg.LoggerLevel, config.Cfg.IsDevelopment()),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLogLevel(level string, development bool) gormlogger.LogLevel {
	if development {
		return gormlogger.Info
	}

	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return gormlogger.Info
	case "ERROR":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Named("gorm").Sugar().Infof(format, args...)
}
