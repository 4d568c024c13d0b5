package main

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/lunchbot/internal/config"
)

// openFile is swapped out in tests.
var openFile = browser.OpenFile

var openCmd = &cobra.Command{
	Use:       "open <config|cache>",
	Short:     "Open the config file or the cache directory",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"config", "cache"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error

		switch args[0] {
		case "config":
			path = configPath
			if path == "" {
				path, err = config.ConfigPath()
			}
		case "cache":
			path, err = config.CacheDir()
		default:
			return fmt.Errorf("unknown target: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get path: %w", err)
		}

		cmd.Printf("Opening %s\n", path)
		if err := openFile(path); err != nil {
			return fmt.Errorf("failed to open: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
