package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan the mailbox on a fixed interval",
		Long: `Run an immediate scan, then repeat on the configured interval
until interrupted. A failed scan is logged and retried on the next tick;
the persisted package list keeps its last good contents in between.`,
		RunE: runWatch,
	}

	cmd.Flags().Int("interval", 30, "Minutes between scans")
	cmd.Flags().Int("days-old", 30, "How many days of mail to scan")
	cmd.Flags().Int("max-packages", engine.DefaultMaxPackages, "Retention cap for the package list")

	_ = viper.BindPFlag("scan_interval", cmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("days_old", cmd.Flags().Lookup("days-old"))
	_ = viper.BindPFlag("max_packages", cmd.Flags().Lookup("max-packages"))

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx, true, engine.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("failed to close storage", "error", closeErr)
		}
	}()

	interval := time.Duration(viper.GetInt("scan_interval")) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	account := config.Account()

	scanOnce := func() {
		result, scanErr := eng.Scan(ctx, account)
		if scanErr != nil {
			slog.Error("scan failed", "account", account, "error", scanErr)
			return
		}
		slog.Info("scan finished",
			"account", account,
			"emails", result.EmailCount,
			"packages", len(result.Packages))
	}

	scanOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case <-ticker.C:
			scanOnce()
		}
	}
}
