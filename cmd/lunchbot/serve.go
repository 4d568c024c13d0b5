package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ibeckermayer/lunchbot/internal/app"
	"github.com/ibeckermayer/lunchbot/internal/scheduler"
)

const announceJob = "announce"

var serveNow bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Announce the menu on the configured schedule",
	Long: `Runs until interrupted, announcing the menu on the cron schedule from
the config file. SIGHUP reloads the config file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNow, "now", false, "also run once at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, cmd, needs{fetch: true, announce: true})
	if err != nil {
		return err
	}
	defer e.close()

	cfg := e.app.Config()
	sched, err := scheduler.New(cfg.General.Timezone, time.Duration(cfg.Schedule.TimeoutMin)*time.Minute, e.logger)
	if err != nil {
		return err
	}

	job := func(ctx context.Context) error {
		return e.app.Run(ctx, app.RunOptions{})
	}
	if err := sched.AddJob(announceJob, cfg.Schedule.Cron, job); err != nil {
		return err
	}
	if serveNow {
		if err := sched.RunNow(ctx, announceJob, job); err != nil {
			e.logger.Error("startup run failed", "error", err)
		}
	}
	sched.Start()
	if next, ok := sched.NextRun(announceJob, time.Now()); ok {
		e.logger.Info("next announcement", "at", next.Format(time.DateTime))
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			<-sched.Stop().Done()
			return nil
		case <-hup:
			if err := e.app.ReloadConfig(ctx); err != nil {
				e.logger.Error("failed to reload config", "error", err)
				continue
			}
			if err := sched.AddJob(announceJob, e.app.Config().Schedule.Cron, job); err != nil {
				e.logger.Error("failed to reschedule", "error", err)
			}
		}
	}
}
