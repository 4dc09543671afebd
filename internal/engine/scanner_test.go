package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelflow/parcelflow/internal/model"
	"github.com/parcelflow/parcelflow/internal/service"
)

type fakeFetcher struct {
	messages []service.RawMessage
	err      error
}

func (f *fakeFetcher) Fetch(context.Context, time.Time) ([]service.RawMessage, error) {
	return f.messages, f.err
}

// fakeDecoder maps message UIDs to pre-decoded emails.
type fakeDecoder struct {
	emails map[uint32]model.EmailMessage
	errs   map[uint32]error
}

func (f *fakeDecoder) Decode(raw service.RawMessage) (model.EmailMessage, error) {
	if err := f.errs[raw.UID]; err != nil {
		return model.EmailMessage{}, err
	}
	return f.emails[raw.UID], nil
}

func upsEmail(ts time.Time) model.EmailMessage {
	return model.EmailMessage{
		Timestamp: ts,
		From:      "UPS <mcinfo@ups.com>",
		Subject:   "Your package is on its way",
		Body:      `<a href="https://www.ups.com/track?loc=en_US&tracknum=1Z999AA10123456784&req=1">Track</a>`,
	}
}

func TestScan(t *testing.T) {
	store := newMemStore()
	ts := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	fetcher := &fakeFetcher{messages: []service.RawMessage{{UID: 1}, {UID: 2}}}
	decoder := &fakeDecoder{
		emails: map[uint32]model.EmailMessage{1: upsEmail(ts)},
		errs:   map[uint32]error{2: errors.New("broken mime")},
	}

	var progress []int
	eng := New(store, fetcher, decoder, Options{
		Progress: func(done, _ int) { progress = append(progress, done) },
	})
	eng.now = func() time.Time { return ts.Add(time.Hour) }

	result, err := eng.Scan(context.Background(), testAccount)
	require.NoError(t, err)

	// The undecodable message is skipped, the scan continues.
	assert.Equal(t, 2, result.EmailCount)
	assert.Equal(t, 1, result.CandidateCount)
	require.Len(t, result.Packages, 1)

	pkg := result.Packages[0]
	assert.Equal(t, "1Z999AA10123456784", pkg.TrackingNumber)
	assert.Equal(t, "UPS", pkg.Carrier)
	assert.Equal(t, ts, pkg.FirstSeen)
	assert.Equal(t, "ups_com", pkg.RetailerCode)

	assert.Equal(t, []int{1, 2}, progress)

	// The reconciled state was saved.
	state, err := store.LoadState(context.Background(), testAccount)
	require.NoError(t, err)
	assert.Contains(t, state.Packages, "1Z999AA10123456784")
}

func TestScanDedupesAcrossParsers(t *testing.T) {
	store := newMemStore()
	ts := time.Now()

	// A sender matched by two parsers (its own domain plus the generic
	// catch-all) must not double-count the same number.
	email := model.EmailMessage{
		Timestamp: ts,
		From:      "orders@ups.com",
		Body:      `<a href="https://www.ups.com/track?loc=en_US&tracknum=1Z999AA10123456784&req=1">Tracking Number: 1Z999AA10123456784</a>`,
	}

	fetcher := &fakeFetcher{messages: []service.RawMessage{{UID: 1}}}
	decoder := &fakeDecoder{emails: map[uint32]model.EmailMessage{1: email}}

	eng := New(store, fetcher, decoder, Options{})
	result, err := eng.Scan(context.Background(), testAccount)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CandidateCount)
	assert.Len(t, result.Packages, 1)
}

func TestScanFetchFailureAbortsWithoutSaving(t *testing.T) {
	store := newMemStore()
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	decoder := &fakeDecoder{}

	eng := New(store, fetcher, decoder, Options{})
	_, err := eng.Scan(context.Background(), testAccount)
	require.Error(t, err)

	// Nothing was written.
	assert.Empty(t, store.states)
}

func TestListDoesNotFetch(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	state := model.NewPersistedState()
	state.Packages["1Z1"] = model.Package{
		TrackingNumber: "1Z1",
		Carrier:        "UPS",
		Origin:         "amazon.com",
		FirstSeen:      time.Now(),
		LastUpdated:    time.Now(),
		Source:         model.SourceAuto,
	}
	require.NoError(t, store.SaveState(ctx, testAccount, state))

	// A nil fetcher proves list never touches the mailbox.
	eng := New(store, nil, nil, Options{})
	visible, summary, err := eng.List(ctx, testAccount)
	require.NoError(t, err)

	require.Len(t, visible, 1)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, map[string]int{"UPS": 1}, summary.ByCarrier)
}
