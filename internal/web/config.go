package web

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config describes the HTTP server configuration read from the environment.
type Config struct {
	Addr            string        `env:"DMGCALC_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	ReadTimeout     time.Duration `env:"DMGCALC_HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"DMGCALC_HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"DMGCALC_HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"DMGCALC_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	OTelEndpoint    string        `env:"DMGCALC_OTEL_ENDPOINT"`
}

// LoadConfig loads the server configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
