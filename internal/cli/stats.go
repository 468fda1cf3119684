package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/solacehq/solace/internal/adapters/otel"
	"github.com/solacehq/solace/internal/infrastructure/config"
	"github.com/solacehq/solace/internal/ports"
	"github.com/solacehq/solace/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate usage totals",
	Long:  `Print the total number of registered users and recorded sessions.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	profiles, sessions, closeStore, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.New(profiles, sessions, ports.SystemClock{}, otel.NewNoOpExporter(), logger)

	ctx := context.Background()
	users, err := svc.TotalUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	total, err := svc.TotalSessions(ctx)
	if err != nil {
		return fmt.Errorf("counting sessions: %w", err)
	}

	fmt.Printf("Users:    %d\n", users)
	fmt.Printf("Sessions: %d\n", total)
	return nil
}
