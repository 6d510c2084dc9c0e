package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	NATSURL         string
	NATSConnTimeout time.Duration

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseDialTimeout  time.Duration
	ClickHouseMaxExecTime  int
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	SkillConfidenceThreshold float64
	TrendCalculationDays     int
	DedupRetentionDays       int
	PostingRetentionDays     int

	AggregationInterval time.Duration
	IngestWorkers       int
	BatchTimeout        time.Duration

	OTELCollectorURL string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseDialTimeout:  getEnvDuration("CLICKHOUSE_DIAL_TIMEOUT", 30*time.Second),
		ClickHouseMaxExecTime:  getEnvInt("CLICKHOUSE_MAX_EXECUTION_TIME", 60),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "skillpulse"),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 15*time.Minute),

		SkillConfidenceThreshold: getEnvFloat("SKILL_CONFIDENCE_THRESHOLD", 0.7),
		TrendCalculationDays:     getEnvInt("TREND_CALCULATION_DAYS", 30),
		DedupRetentionDays:       getEnvInt("DEDUP_RETENTION_DAYS", 90),
		PostingRetentionDays:     getEnvInt("POSTING_RETENTION_DAYS", 180),

		AggregationInterval: getEnvDuration("AGGREGATION_INTERVAL", 15*time.Minute),
		IngestWorkers:       getEnvInt("INGEST_WORKERS", 8),
		BatchTimeout:        getEnvDuration("BATCH_TIMEOUT", 2*time.Minute),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
