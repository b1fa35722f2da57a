package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilepile/dawg/internal/app"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch SCOWLv2, normalize it, and pack the DAWG dictionary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if size, _ := cmd.Flags().GetInt("size"); cmd.Flags().Changed("size") {
			cfg.SCOWL.Size = size
		}
		if sha, _ := cmd.Flags().GetString("archive-sha256"); sha != "" {
			cfg.SCOWL.ArchiveSHA256 = sha
		}

		res, err := app.Build(cmd.Context(), log, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %s (%d words, %d states, %d bytes)\n",
			res.DawgPath, res.Words, res.States, res.DawgBytes)
		fmt.Printf("SHA-256: %s\n", res.DawgSHA)
		return nil
	},
}

func init() {
	buildCmd.Flags().Int("size", 80, "SCOWL size")
	buildCmd.Flags().String("archive-sha256", "", "Expected SHA-256 of the source archive; overrides the lock file")
	rootCmd.AddCommand(buildCmd)
}
