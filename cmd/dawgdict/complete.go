package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilepile/dawg"
	"github.com/tilepile/dawg/internal/wordlist"
)

var completeCmd = &cobra.Command{
	Use:   "complete PREFIX",
	Short: "List dictionary words starting with a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		rd, err := dawg.OpenFile(cfg.Data.DawgFile)
		if err != nil {
			return err
		}
		defer rd.Close()

		prefix := wordlist.NormalizeWord(args[0])
		for word := range rd.Completions(prefix, limit) {
			fmt.Println(word)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().Int("limit", 20, "Maximum number of completions (0 for all)")
	rootCmd.AddCommand(completeCmd)
}
