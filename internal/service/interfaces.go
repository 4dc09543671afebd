// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/parcelflow/parcelflow/internal/model"
)

// Storage defines the contract for our persistence layer. State is stored
// as one document per mail account.
type Storage interface {
	LoadState(ctx context.Context, account string) (*model.PersistedState, error)
	SaveState(ctx context.Context, account string, state *model.PersistedState) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RawMessage is one fetched email before MIME decoding.
type RawMessage struct {
	InternalDate time.Time
	UID          uint32
	Raw          []byte
}

// MailFetcher retrieves raw messages from a mailbox.
type MailFetcher interface {
	Fetch(ctx context.Context, since time.Time) ([]RawMessage, error)
}

// MessageDecoder turns a raw message into the decoded form parsers consume.
type MessageDecoder interface {
	Decode(raw RawMessage) (model.EmailMessage, error)
}

// ScanResult summarizes one completed mailbox scan.
type ScanResult struct {
	Packages        []model.Package
	EmailCount      int
	CandidateCount  int
	NewPackageCount int
}

// Summary aggregates the visible package list for reporting.
type Summary struct {
	ByCarrier  map[string]int
	ByRetailer map[string]int
	Total      int
	Manual     int
	Hidden     int
}

// RetryOptions configures retry behavior.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
