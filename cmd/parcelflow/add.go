package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <tracking-number>",
		Short: "Add a manual package",
		Long: `Add a package by tracking number without waiting for an email.
Manual packages override auto-discovered entries with the same number, and
adding a previously hidden number un-hides it.`,
		Args: cobra.ExactArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().String("carrier", "", "Carrier name (default: prior value or Unknown)")
	cmd.Flags().String("origin", "", "Origin retailer (default: prior value or Unknown)")
	cmd.Flags().String("link", "", "Tracking link (default: generated from carrier)")
	cmd.Flags().String("status", "", "Free-form status note")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	carrier, _ := cmd.Flags().GetString("carrier")
	origin, _ := cmd.Flags().GetString("origin")
	link, _ := cmd.Flags().GetString("link")
	status, _ := cmd.Flags().GetString("status")

	visible, err := eng.AddManual(ctx, config.Account(), engine.ManualPackageInput{
		TrackingNumber: args[0],
		Carrier:        carrier,
		Origin:         origin,
		Link:           link,
		Status:         status,
	})
	if err != nil {
		return err
	}

	printPackages(visible)
	return nil
}
