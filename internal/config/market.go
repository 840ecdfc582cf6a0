package config

import "time"

// Market — параметры конвейера отбора. Допуск дедупликации и порог отката —
// константы из исходного продукта без обоснования, поэтому вынесены в конфиг,
// а не зашиты в код.
type Market struct {
	MinOrders          int           `env:"MARKET_MIN_ORDERS" envDefault:"500"`
	DedupTolerance     float64       `env:"MARKET_DEDUP_TOLERANCE" envDefault:"0.01"`
	FallbackMinCount   int           `env:"MARKET_FALLBACK_MIN_COUNT" envDefault:"5"`
	SnapshotTTL        time.Duration `env:"MARKET_SNAPSHOT_TTL" envDefault:"2m"`
	RefreshInterval    time.Duration `env:"MARKET_REFRESH_INTERVAL" envDefault:"2m"`
	AlertSpreadPercent float64       `env:"MARKET_ALERT_SPREAD_PERCENT" envDefault:"3.0"`
	AlertCooldown      time.Duration `env:"MARKET_ALERT_COOLDOWN" envDefault:"30m"`
}
