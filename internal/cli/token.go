package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solacehq/solace/internal/auth"
	"github.com/solacehq/solace/internal/infrastructure/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token <principal>",
	Short: "Mint a bearer token for a principal",
	Long: `Mint a signed bearer token for the given principal, useful for
local development and API testing.

Examples:
  solace token alice
  solace token alice --ttl 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

var tokenTTL time.Duration

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (overrides SOLACE_TOKEN_TTL)")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("SOLACE_JWT_SECRET is not set")
	}

	ttl := cfg.Auth.TokenTTL
	if tokenTTL != 0 {
		ttl = tokenTTL
	}

	token, err := auth.New(cfg.Auth.JWTSecret).Issue(args[0], ttl)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	fmt.Println(token)
	return nil
}
