package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends selectable via SOLACE_STORAGE_BACKEND.
const (
	BackendBadger = "badger"
	BackendTurso  = "turso"
)

// Server holds HTTP server configuration.
type Server struct {
	Port int `envconfig:"SOLACE_PORT" default:"8080"`
}

// Auth holds bearer-token configuration.
type Auth struct {
	JWTSecret string        `envconfig:"SOLACE_JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"SOLACE_TOKEN_TTL" default:"24h"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend    string `envconfig:"SOLACE_STORAGE_BACKEND" default:"badger"`
	BadgerPath string `envconfig:"SOLACE_BADGER_PATH" default:"./data/solace"`
	TursoURL   string `envconfig:"TURSO_DATABASE_URL"`
	TursoToken string `envconfig:"TURSO_AUTH_TOKEN"`
}

// Telemetry holds OTLP metrics export configuration.
type Telemetry struct {
	Enabled  bool   `envconfig:"SOLACE_OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"SOLACE_OTEL_ENDPOINT" default:"localhost:4317"`
	Insecure bool   `envconfig:"SOLACE_OTEL_INSECURE" default:"true"`
}

// App is the full server configuration.
type App struct {
	Server    Server
	Auth      Auth
	Storage   Storage
	Telemetry Telemetry
}

// Load reads the application configuration from environment variables.
func Load() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Auth); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Storage); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Telemetry); err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case BackendBadger:
	case BackendTurso:
		if cfg.Storage.TursoURL == "" {
			return nil, fmt.Errorf("TURSO_DATABASE_URL is required when SOLACE_STORAGE_BACKEND=%s", BackendTurso)
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return &cfg, nil
}
