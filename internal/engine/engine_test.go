package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelflow/parcelflow/internal/model"
	"github.com/parcelflow/parcelflow/internal/service"
)

// memStore is an in-memory Storage for engine tests.
type memStore struct {
	states map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string][]byte)}
}

func (m *memStore) LoadState(_ context.Context, account string) (*model.PersistedState, error) {
	blob, ok := m.states[account]
	if !ok {
		return model.NewPersistedState(), nil
	}
	state := model.NewPersistedState()
	if err := json.Unmarshal(blob, state); err != nil {
		return nil, err
	}
	state.Normalize()
	return state, nil
}

func (m *memStore) SaveState(_ context.Context, account string, state *model.PersistedState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.states[account] = blob
	return nil
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }

func newTestEngine(t *testing.T, opts Options) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	return New(store, nil, nil, opts), store
}

func resolvedBatch(domain string, candidates ...model.ResolvedCandidate) Batch {
	return Batch{ParserID: domain, Domain: domain, Candidates: candidates}
}

func autoCandidate(tn string, ts time.Time) model.ResolvedCandidate {
	return model.ResolvedCandidate{TrackingCandidate: model.TrackingCandidate{
		TrackingNumber: tn,
		Carrier:        "UPS",
		Origin:         "ups.com",
		Link:           "https://www.ups.com/track?loc=en_US&tracknum=" + tn,
		EmailTimestamp: ts,
	}}
}

func TestReconcileNewPackage(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	eng.now = func() time.Time { return now }

	emailTime := now.Add(-48 * time.Hour)
	state := model.NewPersistedState()
	visible := eng.Reconcile([]Batch{
		resolvedBatch("ups.com", autoCandidate("1Z1", emailTime)),
	}, state)

	require.Len(t, visible, 1)
	pkg := visible[0]
	assert.Equal(t, "1Z1", pkg.TrackingNumber)
	assert.Equal(t, emailTime, pkg.FirstSeen)
	assert.Equal(t, now, pkg.LastUpdated)
	assert.Equal(t, model.SourceAuto, pkg.Source)
	assert.Equal(t, "ups_com", pkg.RetailerCode)
	assert.Equal(t, "ups", pkg.CarrierCode)
	assert.Contains(t, state.Packages, "1Z1")
}

func TestReconcileIdempotent(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	eng.now = func() time.Time { return now }

	batches := []Batch{resolvedBatch("ups.com",
		autoCandidate("1Z1", now.Add(-time.Hour)),
		autoCandidate("1Z2", now.Add(-2*time.Hour)),
	)}

	state := model.NewPersistedState()
	first := eng.Reconcile(batches, state)
	second := eng.Reconcile(batches, state)

	assert.Equal(t, first, second)
}

func TestReconcileFirstSeenMonotonic(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	t1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	state := model.NewPersistedState()

	eng.now = func() time.Time { return t1 }
	eng.Reconcile([]Batch{resolvedBatch("ups.com", autoCandidate("1Z1", t1))}, state)

	// Second scan observes the same number later; first_seen must hold.
	eng.now = func() time.Time { return t2 }
	visible := eng.Reconcile([]Batch{resolvedBatch("ups.com", autoCandidate("1Z1", t2))}, state)

	require.Len(t, visible, 1)
	assert.Equal(t, t1, visible[0].FirstSeen)
	assert.Equal(t, t2, visible[0].LastUpdated)

	// An earlier observation pulls first_seen back.
	t0 := t1.Add(-24 * time.Hour)
	visible = eng.Reconcile([]Batch{resolvedBatch("ups.com", autoCandidate("1Z1", t0))}, state)
	require.Len(t, visible, 1)
	assert.Equal(t, t0, visible[0].FirstSeen)
}

func TestReconcileCapOrdering(t *testing.T) {
	eng, _ := newTestEngine(t, Options{MaxPackages: 3})
	// MaxPackages below the minimum is clamped up.
	assert.Equal(t, MinMaxPackages, eng.opts.MaxPackages)

	eng, _ = newTestEngine(t, Options{MaxPackages: 10})
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	eng.now = func() time.Time { return now }
	eng.opts.MaxPackages = 2

	t1 := now.Add(-3 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-1 * time.Hour)

	state := model.NewPersistedState()
	visible := eng.Reconcile([]Batch{resolvedBatch("ups.com",
		autoCandidate("1Z-T1", t1),
		autoCandidate("1Z-T2", t2),
		autoCandidate("1Z-T3", t3),
	)}, state)

	require.Len(t, visible, 2)
	assert.Equal(t, "1Z-T3", visible[0].TrackingNumber)
	assert.Equal(t, "1Z-T2", visible[1].TrackingNumber)

	// Truncation is reflected in the persisted map.
	assert.Len(t, state.Packages, 2)
	assert.NotContains(t, state.Packages, "1Z-T1")
}

func TestReconcileDedup(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	now := time.Now()
	eng.now = func() time.Time { return now }

	// The same number reported by two parsers converges to one entry.
	state := model.NewPersistedState()
	visible := eng.Reconcile([]Batch{
		resolvedBatch("ups.com", autoCandidate("1Z1", now)),
		resolvedBatch("somestore.com", autoCandidate("1Z1", now)),
	}, state)

	assert.Len(t, visible, 1)
}

func TestReconcileHiddenExcluded(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	now := time.Now()
	eng.now = func() time.Time { return now }

	state := model.NewPersistedState()
	state.Hide("1Z1")

	visible := eng.Reconcile([]Batch{resolvedBatch("ups.com",
		autoCandidate("1Z1", now),
		autoCandidate("1Z2", now),
	)}, state)

	require.Len(t, visible, 1)
	assert.Equal(t, "1Z2", visible[0].TrackingNumber)
	assert.NotContains(t, state.Packages, "1Z1")
}

func TestReconcileManualPrecedence(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	now := time.Now()
	eng.now = func() time.Time { return now }

	state := model.NewPersistedState()
	state.ManualPackages["1Z1"] = model.Package{
		TrackingNumber: "1Z1",
		Carrier:        "FedEx",
		Origin:         "manual entry",
		FirstSeen:      now,
		LastUpdated:    now,
		Source:         model.SourceManual,
	}

	visible := eng.Reconcile([]Batch{resolvedBatch("ups.com", autoCandidate("1Z1", now))}, state)

	require.Len(t, visible, 1)
	assert.Equal(t, model.SourceManual, visible[0].Source)
	assert.Equal(t, "FedEx", visible[0].Carrier)
}

func TestSummarize(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	state := model.NewPersistedState()
	state.Hide("hidden-1")

	visible := []model.Package{
		{TrackingNumber: "a", Carrier: "UPS", Origin: "amazon.com", Source: model.SourceAuto},
		{TrackingNumber: "b", Carrier: "UPS", Origin: "chewy.com", Source: model.SourceAuto},
		{TrackingNumber: "c", Carrier: "FedEx", Origin: "amazon.com", Source: model.SourceManual},
	}

	summary := eng.Summarize(visible, state)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Manual)
	assert.Equal(t, 1, summary.Hidden)
	assert.Equal(t, map[string]int{"UPS": 2, "FedEx": 1}, summary.ByCarrier)
	assert.Equal(t, map[string]int{"amazon.com": 2, "chewy.com": 1}, summary.ByRetailer)
}

func TestClampMaxPackages(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, DefaultMaxPackages},
		{"below minimum", 3, MinMaxPackages},
		{"above maximum", 9000, MaxMaxPackages},
		{"in range", 250, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampMaxPackages(tt.in))
		})
	}
}

var _ service.Storage = (*memStore)(nil)
