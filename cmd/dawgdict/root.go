package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilepile/dawg/internal/app"
	"github.com/tilepile/dawg/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dawgdict",
	Short: "dawgdict builds and queries a packed DAWG dictionary",
	Long: `dawgdict turns the pinned SCOWLv2 word list into a packed DAWG
dictionary artifact (dict.dawg) and answers membership, prefix, and
completion queries against it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a dawgdict.yaml config file")
}

// loadConfig resolves config and sets up the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	log := app.NewLogger(cfg.Log)
	return cfg, log, nil
}
