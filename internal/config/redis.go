package config

import "time"

type Redis struct {
	Address            string        `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Username           string        `env:"REDIS_USERNAME"`
	Password           string        `env:"REDIS_PASSWORD"`
	DatabaseNumber     int           `env:"REDIS_DATABASE_NUMBER" envDefault:"0"`
	PoolSize           int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int           `env:"REDIS_MIN_IDLE_CONNECTIONS" envDefault:"1"`
	MaxIdleConnections int           `env:"REDIS_MAX_IDLE_CONNECTIONS" envDefault:"5"`
	SnapshotTTL        time.Duration `env:"REDIS_SNAPSHOT_TTL" envDefault:"10m"`
}
