// Command lunchbot announces the canteen's lunch menu on Slack.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/ibeckermayer/lunchbot/internal/app"
	"github.com/ibeckermayer/lunchbot/internal/config"
	"github.com/ibeckermayer/lunchbot/internal/logging"
	"github.com/ibeckermayer/lunchbot/internal/notifier"
	"github.com/ibeckermayer/lunchbot/internal/source"
	"github.com/ibeckermayer/lunchbot/internal/store"
)

var (
	verbose    bool
	configPath string

	// newSource is swapped out in tests.
	newSource = source.New
)

var rootCmd = &cobra.Command{
	Use:           "lunchbot",
	Short:         "Announce today's lunch menu",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the user config dir)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// env is what a command needs to drive the app.
type env struct {
	app    *app.App
	logger *slog.Logger
	close  func()
}

type needs struct {
	fetch    bool
	announce bool
}

// setup loads the configuration and builds the app with the parts n asks
// for. Announcing without fetching is not supported.
func setup(ctx context.Context, cmd *cobra.Command, n needs) (*env, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if n.fetch {
		if err := cfg.Validate(!n.announce); err != nil {
			return nil, err
		}
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.General.LogLevel, verbose)

	var src source.Source
	if n.fetch {
		if src, err = newSource(ctx, cfg.Facebook, logging.Component(logger, "source")); err != nil {
			return nil, err
		}
	}
	var ann app.Announcer
	if n.announce {
		if ann, err = notifier.NewFromConfig(cfg, logging.Component(logger, "notifier"), false, cmd.OutOrStdout()); err != nil {
			return nil, err
		}
	}

	dbPath, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "path", dbPath)

	a := app.New(cfg, st, src, ann,
		app.WithLogger(logger),
		app.WithCacheDir(filepath.Dir(dbPath)),
		app.WithConfigPath(path),
		app.WithOutput(cmd.OutOrStdout()),
	)
	return &env{app: a, logger: logger, close: func() { st.Close() }}, nil
}
