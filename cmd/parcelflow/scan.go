package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the mailbox once and update the package list",
		Long: `Fetch recent emails, extract tracking numbers with the retailer
parsers and reconcile them into the persisted package list.`,
		RunE: runScan,
	}

	cmd.Flags().Int("days-old", 30, "How many days of mail to scan")
	cmd.Flags().Int("max-packages", engine.DefaultMaxPackages, "Retention cap for the package list")

	_ = viper.BindPFlag("days_old", cmd.Flags().Lookup("days-old"))
	_ = viper.BindPFlag("max_packages", cmd.Flags().Lookup("max-packages"))

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var bar *progressbar.ProgressBar
	opts := engine.Options{
		Progress: func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Scanning emails..."),
				)
			}
			_ = bar.Set(done)
		},
	}

	eng, store, err := initEngine(ctx, true, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("failed to close storage", "error", closeErr)
		}
	}()

	result, err := eng.Scan(ctx, config.Account())
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	printPackages(result.Packages)

	state, err := store.LoadState(ctx, config.Account())
	if err == nil {
		printSummary(eng.Summarize(result.Packages, state))
	}
	return nil
}
