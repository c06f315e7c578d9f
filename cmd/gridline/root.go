package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/cli"
	"github.com/gridline-labs/gridline/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "gridline",
	Short: "gridline is a menu-driven customer service chatbot",
	Long: `gridline answers electricity customers through a fixed conversation graph:
bill inquiries, solar services, fault reporting and new connections, in English and Sinhala.

Settings come from GRIDLINE_* environment variables, optionally loaded from a .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flows", "", "Directory of flow documents (default: embedded flows)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFiles(envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("flows") {
		cfg.Server.FlowsDir, _ = cmd.Flags().GetString("flows")
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.CreateLogger(cfg.Log, debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openStack loads configuration and wires the full bot.
func openStack(cmd *cobra.Command) (*cli.Stack, *config.Config, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := cli.BuildStack(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return st, cfg, logger, nil
}
