package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/viper"

	"github.com/parcelflow/parcelflow/internal/config"
	"github.com/parcelflow/parcelflow/internal/engine"
	"github.com/parcelflow/parcelflow/internal/mail"
	"github.com/parcelflow/parcelflow/internal/model"
	"github.com/parcelflow/parcelflow/internal/service"
	"github.com/parcelflow/parcelflow/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine wires the full scan pipeline. Commands that never touch the
// mailbox pass withMail=false and get a state-only engine.
func initEngine(ctx context.Context, withMail bool, opts engine.Options) (*engine.Engine, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts.MaxPackages = engine.ClampMaxPackages(viper.GetInt("max_packages"))
	if daysOld := viper.GetInt("days_old"); daysOld > 0 {
		opts.DaysOld = daysOld
	}

	var fetcher service.MailFetcher
	var decoder service.MessageDecoder
	if withMail {
		mailOpts := config.LoadMailConfig()
		if mailOpts.Host == "" || mailOpts.Username == "" {
			_ = store.Close()
			return nil, nil, fmt.Errorf("mail.host and mail.username must be configured")
		}
		fetcher = mail.NewFetcher(mailOpts)
		decoder = mail.NewDecoder()
	}

	return engine.New(store, fetcher, decoder, opts), store, nil
}

// printPackages renders the visible list as an aligned table.
func printPackages(packages []model.Package) {
	if len(packages) == 0 {
		fmt.Println("No packages.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRACKING NUMBER\tCARRIER\tORIGIN\tFIRST SEEN\tSOURCE")
	for _, pkg := range packages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			pkg.TrackingNumber,
			pkg.Carrier,
			pkg.Origin,
			pkg.FirstSeen.Format("2006-01-02"),
			pkg.Source)
	}
	_ = w.Flush()
}

func printSummary(summary service.Summary) {
	fmt.Printf("\n%d package(s), %d manual, %d hidden\n", summary.Total, summary.Manual, summary.Hidden)
	for carrier, count := range summary.ByCarrier {
		fmt.Printf("  %s: %d\n", carrier, count)
	}
}
