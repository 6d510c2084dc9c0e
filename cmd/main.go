package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/cache"
	cacheredis "skillpulse/internal/cache/redis"
	"skillpulse/internal/config"
	"skillpulse/internal/database"
	"skillpulse/internal/database/schema"
	"skillpulse/internal/database/schema/migrations"
	"skillpulse/internal/events"
	"skillpulse/internal/extractor"
	"skillpulse/internal/market"
	"skillpulse/internal/normalizer"
	"skillpulse/internal/pipeline"
	"skillpulse/internal/query"
	"skillpulse/internal/scheduler"
	"skillpulse/internal/store"
	"skillpulse/internal/taxonomy"
	"skillpulse/internal/telemetry"
	"skillpulse/internal/trends"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("skillpulse"),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(cfg.NATSURL, opts...)
}

func newClickHouseConnection(cfg *config.Config, logger *zap.Logger) (clickhouse.Conn, error) {
	db, err := database.New(context.Background(), database.Options{
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
		return nil, err
	}
	return db.Conn(), nil
}

func newCache(cfg *config.Config) cache.Cache {
	return cacheredis.New(cache.Options{
		DefaultTTL:    cfg.CacheTTL,
		RedisURL:      cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
}

func newTaxonomy() *taxonomy.Taxonomy {
	return taxonomy.Default()
}

func newExtractor(tax *taxonomy.Taxonomy, cfg *config.Config, logger *zap.Logger) *extractor.Extractor {
	return extractor.New(tax, cfg.SkillConfidenceThreshold, logger)
}

func newStore(conn clickhouse.Conn, logger *zap.Logger) store.PostingStore {
	return store.NewClickHouseStore(conn, logger)
}

func runMigrations(conn clickhouse.Conn, logger *zap.Logger) error {
	return schema.NewMigrator(conn, logger).ApplyPending(context.Background(), migrations.All)
}

func registerTelemetry(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	if cfg.OTELCollectorURL == "" {
		return
	}

	var shutdown func()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s, err := telemetry.InitTracer(ctx, "skillpulse", cfg.OTELCollectorURL)
			if err != nil {
				return err
			}
			shutdown = s
			logger.Info("tracing enabled", zap.String("collector", cfg.OTELCollectorURL))
			return nil
		},
		OnStop: func(context.Context) error {
			if shutdown != nil {
				shutdown()
			}
			return nil
		},
	})
}

func registerScheduler(lc fx.Lifecycle, s *scheduler.Scheduler, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := s.Start(ctx); err != nil && err != context.Canceled {
					logger.Error("scheduler stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			s.Stop()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newNATSConnection,
			newClickHouseConnection,
			newCache,
			newTaxonomy,
			newExtractor,
			normalizer.New,
			newStore,
			pipeline.New,
			aggregator.New,
			trends.NewCalculator,
			market.NewBuilder,
			query.New,
			events.NewHandler,
			scheduler.New,
		),
		fx.Invoke(
			runMigrations,
			registerTelemetry,
			func(handler *events.Handler, lc fx.Lifecycle) error {
				return handler.RegisterSubscriptions(lc)
			},
			registerScheduler,
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
