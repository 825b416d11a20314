package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"CommunitySpaces/config"
	dbotel "CommunitySpaces/pkg/database"
	"CommunitySpaces/pkg/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

func Init() error {
	dbOnce.Do(func() {
		gormCfg := &gorm.Config{
			Logger:                                   newLogger(),
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
			SkipDefaultTransaction:                   true,
			TranslateError:                           true,
		}

		var gormDB *gorm.DB
		gormDB, dbErr = gorm.Open(postgres.Open(config.Cfg.GetDSN()), gormCfg)
		if dbErr != nil {
			logger.Logger.Error("Failed to open database", zap.String("dsn", "please check database connection"), zap.Error(dbErr))
			return
		}

		if err := registerReplicas(gormDB, config.Cfg.PostgreSQLReplicaDSNs); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to register read replicas", zap.Error(err))
			return
		}

		plugin, err := dbotel.NewOTELPlugin(dbotel.DefaultPluginConfig(config.Cfg.ServiceName))
		if err != nil {
			dbErr = err
			return
		}
		if err := gormDB.Use(plugin); err != nil {
			dbErr = fmt.Errorf("register otel plugin: %w", err)
			return
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			dbErr = err
			logger.Logger.Error("Failed to get sql.DB from gorm", zap.Error(err))
			return
		}

		configureConnectionPool(sqlDB)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to ping database", zap.Error(err))
			return
		}

		db = gormDB
		if err := Migrate(); err != nil {
			dbErr = fmt.Errorf("run database migration: %w", err)
			return
		}
		logger.Logger.Info("Database initialized successfully",
			zap.Int("replicas", len(config.Cfg.PostgreSQLReplicaDSNs)),
		)
	})

	return dbErr
}

// registerReplicas 读请求分发到只读副本，写请求与事务仍走主库。
func registerReplicas(gormDB *gorm.DB, dsns []string) error {
	if len(dsns) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		replicas = append(replicas, postgres.Open(dsn))
	}

	cfg := config.Cfg
	return gormDB.Use(
		dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: cfg.IsDevelopment(),
		}).
			SetMaxIdleConns(cfg.PostgreSQLMaxIdle).
			SetMaxOpenConns(cfg.PostgreSQLMaxOpen).
			SetConnMaxIdleTime(10 * time.Minute).
			SetConnMaxLifetime(2 * time.Hour),
	)
}

func DB() *gorm.DB {
	return db
}

func Close(ctx context.Context) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func configureConnectionPool(sqlDB *sql.DB) {
	cfg := config.Cfg

	sqlDB.SetMaxIdleConns(cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
