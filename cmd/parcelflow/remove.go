package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
)

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <tracking-number>",
		Short: "Remove or hide a package",
		Long: `Delete a manual package, or hide an auto-discovered tracking
number so future scans keep it out of the list.`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	visible, err := eng.Remove(ctx, config.Account(), args[0])
	if err != nil {
		return err
	}

	slog.Info("package removed", "tracking_number", args[0])
	printPackages(visible)
	return nil
}
