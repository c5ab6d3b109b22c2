package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tuannvm/gobooks/internal/app"
	"github.com/tuannvm/gobooks/internal/config"
)

// globalFlags override values from the config file and environment.
type globalFlags struct {
	debug       bool
	logFile     string
	metricsAddr string
}

// loadConfig reads .env, the config file and the environment, then applies
// command-line overrides.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("debug") {
		cfg.Debug = flags.debug
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "gobooks",
		Short: "Search the Google Books catalog from your terminal",
		Long: `gobooks is a terminal book finder backed by the Google Books API.

Run it without arguments for the interactive search UI: type to search,
results refresh once you stop typing. Use "gobooks search" for one-off
queries in scripts.

The API key is read from GOOGLE_API_KEY or GOBOOKS_API_KEY (a .env file in
the working directory is honoured) or from the key saved by "gobooks login".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	cmd.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	// Add subcommands
	cmd.AddCommand(newSearchCmd(flags))
	cmd.AddCommand(newLoginCmd(flags))
	cmd.AddCommand(newLogoutCmd(flags))

	return cmd
}
