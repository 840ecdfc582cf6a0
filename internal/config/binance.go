package config

import "time"

type Binance struct {
	BaseURL        string        `env:"BINANCE_BASE_URL" envDefault:"https://p2p.binance.com"`
	Asset          string        `env:"BINANCE_ASSET" envDefault:"USDT"`
	Fiat           string        `env:"BINANCE_FIAT" envDefault:"BOB"`
	MaxPages       int           `env:"BINANCE_MAX_PAGES" envDefault:"3"`
	PageSize       int           `env:"BINANCE_PAGE_SIZE" envDefault:"20"`
	PageDelay      time.Duration `env:"BINANCE_PAGE_DELAY" envDefault:"500ms"`
	RequestTimeout time.Duration `env:"BINANCE_REQUEST_TIMEOUT" envDefault:"15s"`
}
