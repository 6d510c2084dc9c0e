package main

import (
	"context"
	"log"

	"skillpulse/internal/config"
	"skillpulse/internal/database"
	"skillpulse/internal/database/schema"
	"skillpulse/internal/database/schema/migrations"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.New(ctx, database.Options{
		DSN:              cfg.ClickHouseDSN,
		MaxOpenConns:     cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:     cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime:  cfg.ClickHouseConnMaxLife,
		DialTimeout:      cfg.ClickHouseDialTimeout,
		MaxExecutionTime: cfg.ClickHouseMaxExecTime,
		Username:         cfg.ClickHouseUsername,
		Password:         cfg.ClickHousePassword,
		Database:         cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer db.Close()

	migrator := schema.NewMigrator(db.Conn(), logger)
	if err := migrator.ApplyPending(ctx, migrations.All); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	logger.Info("All migrations completed successfully")
}
