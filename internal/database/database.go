// Package database owns the ClickHouse connection used by the posting store
// and the schema migrator.
package database

import (
	"context"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"skillpulse/internal/errors"
)

const (
	defaultDialTimeout      = 30 * time.Second
	defaultMaxExecutionTime = 60
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	// MaxExecutionTime caps per-query runtime in seconds; aggregation
	// recomputes scan the full posting set and should fail loudly rather
	// than pile up.
	MaxExecutionTime int
	Username         string
	Password         string
	Database         string
}

type Database struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func New(ctx context.Context, opts Options, logger *zap.Logger) (*Database, error) {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.MaxExecutionTime == 0 {
		opts.MaxExecutionTime = defaultMaxExecutionTime
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Protocol: clickhouse.Native,
		Addr:     []string{hostFromDSN(opts.DSN)},
		Settings: clickhouse.Settings{
			"max_execution_time": opts.MaxExecutionTime,
		},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout:     opts.DialTimeout,
		MaxOpenConns:    opts.MaxOpenConns,
		MaxIdleConns:    opts.MaxIdleConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
	})
	if err != nil {
		return nil, errors.Unavailable("opening clickhouse connection", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, errors.Unavailable("pinging clickhouse", err)
	}

	logger.Info("connected to clickhouse",
		zap.String("addr", hostFromDSN(opts.DSN)),
		zap.String("database", opts.Database))

	return &Database{
		conn:   conn,
		logger: logger,
	}, nil
}

func (db *Database) Close() error {
	return db.conn.Close()
}

func (db *Database) Conn() clickhouse.Conn {
	return db.conn
}

// hostFromDSN strips any query parameters, leaving the host:port address.
func hostFromDSN(dsn string) string {
	host, _, _ := strings.Cut(dsn, "?")
	return host
}
