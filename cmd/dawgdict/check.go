package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilepile/dawg"
	"github.com/tilepile/dawg/internal/wordlist"
)

var checkCmd = &cobra.Command{
	Use:   "check WORD...",
	Short: "Report whether each word is in the packed dictionary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// The packed file is memory-mapped and queried in place.
		rd, err := dawg.OpenFile(cfg.Data.DawgFile)
		if err != nil {
			return err
		}
		defer rd.Close()

		missing := false
		for _, arg := range args {
			word := wordlist.NormalizeWord(arg)
			found := rd.IsWord(word)
			if !found {
				missing = true
			}
			fmt.Printf("%-20s %v\n", word, found)
		}
		if missing {
			return fmt.Errorf("some words are not in the dictionary")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
