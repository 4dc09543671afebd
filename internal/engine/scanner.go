package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
	"github.com/parcelflow/parcelflow/internal/parser"
	"github.com/parcelflow/parcelflow/internal/service"
)

// Scan runs one full mailbox scan for an account: fetch, decode, parse,
// resolve, reconcile, save. A fetch failure aborts the scan before any
// state is loaded or written; decode and parser failures only lose the
// affected message or parser output.
func (e *Engine) Scan(ctx context.Context, account string) (*service.ScanResult, error) {
	lock := e.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	since := e.now().AddDate(0, 0, -e.opts.DaysOld)
	messages, err := e.fetcher.Fetch(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", account, err)
	}

	batches := e.parseMessages(messages)

	state, err := e.store.LoadState(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", account, err)
	}

	before := len(state.Packages)
	visible := e.Reconcile(batches, state)

	if err := e.store.SaveState(ctx, account, state); err != nil {
		return nil, fmt.Errorf("scan %s: %w", account, err)
	}

	result := &service.ScanResult{
		Packages:   visible,
		EmailCount: len(messages),
	}
	for _, batch := range batches {
		result.CandidateCount += len(batch.Candidates)
	}
	if grown := len(state.Packages) - before; grown > 0 {
		result.NewPackageCount = grown
	}

	slog.Info("scan complete",
		"account", account,
		"emails", result.EmailCount,
		"candidates", result.CandidateCount,
		"packages", len(visible))
	return result, nil
}

// parseMessages decodes each raw message and dispatches it to every parser
// whose domain match is a substring of the From header, bucketing resolved
// candidates per parser.
func (e *Engine) parseMessages(messages []service.RawMessage) []Batch {
	buckets := make(map[string]*Batch)
	order := make([]string, 0)
	total := len(messages)

	for i, raw := range messages {
		email, err := e.decoder.Decode(raw)
		if err != nil {
			slog.Warn("skipping undecodable message", "uid", raw.UID, "error", err)
			e.reportProgress(i+1, total)
			continue
		}

		// One email, one appearance per tracking number, even when
		// several parsers match the same sender.
		seenInEmail := make(map[string]bool)

		for _, descriptor := range e.registry {
			if !strings.Contains(email.From, descriptor.DomainMatch) {
				continue
			}
			candidates := parser.SafeParse(descriptor, email)
			if len(candidates) == 0 {
				continue
			}

			bucket, ok := buckets[descriptor.ID]
			if !ok {
				bucket = &Batch{ParserID: descriptor.ID, Domain: descriptor.DomainMatch}
				buckets[descriptor.ID] = bucket
				order = append(order, descriptor.ID)
			}

			for _, candidate := range candidates {
				if candidate.TrackingNumber == "" || seenInEmail[candidate.TrackingNumber] {
					continue
				}
				seenInEmail[candidate.TrackingNumber] = true

				candidate.EmailTimestamp = email.Timestamp
				resolved := carrier.Resolve(candidate, descriptor.DomainMatch)
				bucket.Candidates = append(bucket.Candidates, resolved)
			}
		}
		e.reportProgress(i+1, total)
	}

	batches := make([]Batch, 0, len(order))
	for _, id := range order {
		batches = append(batches, *buckets[id])
	}
	return batches
}

func (e *Engine) reportProgress(done, total int) {
	if e.opts.Progress != nil {
		e.opts.Progress(done, total)
	}
}

// List returns the persisted visible list and its summary without
// touching the mailbox.
func (e *Engine) List(ctx context.Context, account string) ([]model.Package, service.Summary, error) {
	lock := e.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.LoadState(ctx, account)
	if err != nil {
		return nil, service.Summary{}, fmt.Errorf("list %s: %w", account, err)
	}
	visible := e.Visible(state)
	return visible, e.Summarize(visible, state), nil
}
