package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solacehq/solace/internal/adapters/badgerstore"
	otelx "github.com/solacehq/solace/internal/adapters/otel"
	"github.com/solacehq/solace/internal/adapters/turso"
	"github.com/solacehq/solace/internal/auth"
	"github.com/solacehq/solace/internal/infrastructure/config"
	"github.com/solacehq/solace/internal/ports"
	"github.com/solacehq/solace/internal/service"
	"github.com/solacehq/solace/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

Examples:
  solace serve              # Start on default port 8080
  solace serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides SOLACE_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("SOLACE_JWT_SECRET is not set")
	}

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Create context that cancels on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	profiles, sessions, closeStore, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	metrics, err := openMetrics(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := metrics.Close(context.Background()); err != nil {
			logger.Warn("closing metrics exporter", "error", err)
		}
	}()

	svc := service.New(profiles, sessions, ports.SystemClock{}, metrics, logger)
	authenticator := auth.New(cfg.Auth.JWTSecret)

	server := web.NewServer(port, svc, authenticator, logger)
	return server.Start(ctx)
}

func openStorage(cfg *config.App, logger *slog.Logger) (ports.ProfileRepository, ports.SessionRepository, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		store, err := badgerstore.Open(cfg.Storage.BadgerPath, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening badger store: %w", err)
		}
		closeStore := func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing badger store", "error", err)
			}
		}
		return store.Profiles(), store.Sessions(), closeStore, nil

	case config.BackendTurso:
		db, err := turso.NewDB(cfg.Storage.TursoURL, cfg.Storage.TursoToken)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		closeStore := func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database", "error", err)
			}
		}
		return turso.NewProfileRepository(db), turso.NewSessionRepository(db), closeStore, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func openMetrics(ctx context.Context, cfg *config.App, logger *slog.Logger) (ports.MetricsExporter, error) {
	if !cfg.Telemetry.Enabled {
		return otelx.NewNoOpExporter(), nil
	}

	exporter, err := otelx.NewExporter(ctx, otelx.Config{
		Endpoint: cfg.Telemetry.Endpoint,
		Enabled:  true,
		Insecure: cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing metrics exporter: %w", err)
	}
	logger.Info("metrics export enabled", "endpoint", cfg.Telemetry.Endpoint)
	return exporter, nil
}
