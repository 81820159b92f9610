package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"knowledgedrop/internal/config"
	"knowledgedrop/internal/schedule"
)

// scheduleCmd runs the pipeline as a daemon on the configured cron spec
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the drop daily on the configured cron schedule",
	Long: `Starts a long-running scheduler that executes the pipeline on the
cron spec from the config (default "0 7 * * *"). The config file is
watched for changes, so editing the schedule takes effect without a
restart. Stop with Ctrl-C.`,
	RunE: runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Only watch a path that actually exists; env-only setups have no
	// file to reload from.
	watchPath := cfgPath
	if _, err := os.Stat(cfgPath); err != nil {
		watchPath = ""
	}

	job := func(ctx context.Context, cfg *config.Config) error {
		return executeRun(ctx, cfg, "", false, logger)
	}

	s := schedule.New(watchPath, cfg, job, logger)
	if err := s.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	s.Stop()
	return nil
}
