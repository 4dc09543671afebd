package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the current package list without scanning",
		RunE:  runList,
	}

	cmd.Flags().Int("max-packages", engine.DefaultMaxPackages, "Retention cap for the package list")
	_ = viper.BindPFlag("max_packages", cmd.Flags().Lookup("max-packages"))

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx, false, engine.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("failed to close storage", "error", closeErr)
		}
	}()

	visible, summary, err := eng.List(ctx, config.Account())
	if err != nil {
		return err
	}

	printPackages(visible)
	printSummary(summary)
	return nil
}
