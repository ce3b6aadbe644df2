package db

import (
	"fmt"
	"time"

	"swiftlogix/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はbackendのPostgresに接続して *gorm.DB を返す。
// テーブルとRPCはbackend側で管理するのでmigrateはしない
func Connect(cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDev() {
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		//一意制約違反をgorm.ErrDuplicatedKeyにする
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gdb, nil
}
