package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// logLevel overrides LOG_LEVEL for every subcommand.
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "eventmanagement",
		Short: "Event management API server",
		Long: `Event management API server.

Hosts create events, users register as participants, hosts invite users and
participants leave feedback. Runs the HTTP API by default.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				return os.Setenv("LOG_LEVEL", logLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(versionCmd)
}
