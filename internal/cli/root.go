package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solace",
	Short: "Therapy session tracking backend",
	Long: `solace is a backend for tracking therapy sessions.

Register users, record two-phase therapy sessions with derived
voice-emotion metrics, and generate progress reports over the
recorded history.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
