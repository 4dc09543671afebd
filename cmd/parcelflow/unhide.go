package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
)

func unhideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unhide <tracking-number>",
		Short: "Remove a tracking number from the hidden list",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnhide,
	}
}

func runUnhide(cmd *cobra.Command, args []string) error {
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

	unhidden, err := eng.Unhide(ctx, config.Account(), args[0])
	if err != nil {
		return err
	}

	if unhidden {
		slog.Info("tracking number unhidden", "tracking_number", args[0])
	} else {
		slog.Info("tracking number was not hidden", "tracking_number", args[0])
	}
	return nil
}
