package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/area-weather/internal/batchfile"
	"github.com/i474232898/area-weather/internal/report"
	"github.com/i474232898/area-weather/internal/scheduler"
	"github.com/i474232898/area-weather/internal/weather"
)

var every time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run a batch file periodically and print each completed batch",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Batch file with one name:km per line")
	watchCmd.Flags().DurationVar(&every, "every", 0, "Interval between runs (default WATCH_INTERVAL)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if batchFile == "" {
		return errors.New("watch requires --file")
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if every <= 0 {
		every = cfg.WatchInterval
	}

	locs, err := batchfile.Load(batchFile)
	if err != nil {
		return err
	}

	aggregator, err := newAggregator(cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sched := scheduler.New(locs, every, aggregator, func(b weather.BatchResult) error {
		return report.Batch(out, b)
	}, log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	log.Info("watching", "file", batchFile, "every", every)
	<-cmd.Context().Done()
	return nil
}
