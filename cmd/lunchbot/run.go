package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ibeckermayer/lunchbot/internal/app"
)

var (
	runDate   string
	runDryRun bool
	runForce  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, extract and announce today's menu once",
	Long: `Fetches the latest posts, extracts the menu for today (or --date) and
announces it. A date is announced once; use --force to announce it again.
With --dry-run the messages are printed instead.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runDate, "date", "", "announce the menu of this day (YYYY-MM-DD)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the messages instead of announcing them")
	runCmd.Flags().BoolVar(&runForce, "force", false, "announce even if the date was announced before")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx, cmd, needs{fetch: true, announce: !runDryRun})
	if err != nil {
		return err
	}
	defer e.close()

	opts := app.RunOptions{DryRun: runDryRun, Force: runForce}
	if runDate != "" {
		loc, err := e.app.Config().Location()
		if err != nil {
			return err
		}
		if opts.Date, err = time.ParseInLocation(time.DateOnly, runDate, loc); err != nil {
			return fmt.Errorf("invalid --date %q: %w", runDate, err)
		}
	}
	return e.app.Run(ctx, opts)
}
