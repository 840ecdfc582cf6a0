package config

import "time"

type Server struct {
	ListenAddress       string        `env:"SERVER_LISTEN_ADDRESS" envDefault:":8080"`
	MetricListenAddress string        `env:"SERVER_METRIC_LISTEN_ADDRESS" envDefault:":9090"`
	ProbeListenAddress  string        `env:"SERVER_PROBE_LISTEN_ADDRESS" envDefault:":8091"`
	ShutdownTimeout     time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadHeaderTimeout   time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"5s"`
	LogFieldMaxLen      int           `env:"SERVER_LOG_FIELD_MAX_LEN" envDefault:"2048"`
}
