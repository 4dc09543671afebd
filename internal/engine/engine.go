// Package engine merges parsed tracking candidates with persisted state and
// owns every mutation of that state.
package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/parcelflow/parcelflow/internal/model"
	"github.com/parcelflow/parcelflow/internal/parser"
	"github.com/parcelflow/parcelflow/internal/service"
)

// Max package bounds enforced at the configuration boundary.
const (
	DefaultMaxPackages = 100
	MinMaxPackages     = 10
	MaxMaxPackages     = 500
)

// Options configures scanning and reconciliation.
type Options struct {
	// Progress is invoked after each processed message during a scan.
	Progress    func(done, total int)
	MaxPackages int
	DaysOld     int
}

// ClampMaxPackages applies the configured bounds, substituting the default
// for a zero value.
func ClampMaxPackages(n int) int {
	if n == 0 {
		return DefaultMaxPackages
	}
	if n < MinMaxPackages {
		return MinMaxPackages
	}
	if n > MaxMaxPackages {
		return MaxMaxPackages
	}
	return n
}

// Engine coordinates fetching, parsing, carrier resolution and
// reconciliation against the persisted per-account state.
type Engine struct {
	store    service.Storage
	fetcher  service.MailFetcher
	decoder  service.MessageDecoder
	registry []parser.Descriptor
	now      func() time.Time
	locks    map[string]*sync.Mutex
	opts     Options
	mu       sync.Mutex
}

// New creates an engine. The fetcher and decoder may be nil for callers
// that only use state-level operations (list, add, remove, unhide).
func New(store service.Storage, fetcher service.MailFetcher, decoder service.MessageDecoder, opts Options) *Engine {
	opts.MaxPackages = ClampMaxPackages(opts.MaxPackages)
	if opts.DaysOld <= 0 {
		opts.DaysOld = 30
	}
	return &Engine{
		store:    store,
		fetcher:  fetcher,
		decoder:  decoder,
		registry: parser.Registry(),
		opts:     opts,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex serializing read-modify-write cycles for
// one account's persisted state.
func (e *Engine) accountLock(account string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[account]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[account] = lock
	}
	return lock
}

// Batch is the output of one parser across a whole scan: the resolved
// candidates plus the sender-domain string that selected the parser.
type Batch struct {
	ParserID   string
	Domain     string
	Candidates []model.ResolvedCandidate
}

// Reconcile merges resolved candidate batches into the persisted state and
// returns the visible package list. The state is mutated in place: known
// auto packages absorb the new observations and the packages map is
// truncated to the retention cap. Manual packages and the hidden list are
// never touched here.
func (e *Engine) Reconcile(batches []Batch, state *model.PersistedState) []model.Package {
	now := e.now()

	for _, batch := range batches {
		for _, candidate := range batch.Candidates {
			trackingNumber := candidate.TrackingNumber
			if trackingNumber == "" || state.IsHidden(trackingNumber) {
				continue
			}

			pkg, exists := state.Packages[trackingNumber]
			if !exists {
				firstSeen := candidate.EmailTimestamp
				if firstSeen.IsZero() {
					firstSeen = now
				}
				pkg = model.Package{
					TrackingNumber: trackingNumber,
					FirstSeen:      firstSeen,
					Source:         model.SourceAuto,
				}
			} else if ts := candidate.EmailTimestamp; !ts.IsZero() && ts.Before(pkg.FirstSeen) {
				// first_seen only ever moves earlier.
				pkg.FirstSeen = ts
			}

			pkg.LastUpdated = now
			pkg.Carrier = candidate.Carrier
			pkg.Origin = candidate.Origin
			pkg.Link = candidate.Link
			pkg.RetailerCode = model.RetailerCode(batch.Domain)
			pkg.CarrierCode = model.CarrierCode(candidate.Carrier)
			state.Packages[trackingNumber] = pkg
		}
	}

	visible := e.mergeVisible(state)

	// Persist only what survived truncation so the store cannot grow
	// beyond the retention cap.
	retained := make(map[string]model.Package, len(visible))
	for _, pkg := range visible {
		if pkg.Source == model.SourceAuto {
			retained[pkg.TrackingNumber] = pkg
		}
	}
	state.Packages = retained

	return visible
}

// Visible recomputes the externally visible package list from state alone,
// without new candidates. Used by list and by every mutation.
func (e *Engine) Visible(state *model.PersistedState) []model.Package {
	return e.mergeVisible(state)
}

// mergeVisible applies the manual-override merge, the recency sort and the
// retention cap.
func (e *Engine) mergeVisible(state *model.PersistedState) []model.Package {
	merged := make(map[string]model.Package, len(state.Packages)+len(state.ManualPackages))
	for tn, pkg := range state.Packages {
		if !state.IsHidden(tn) {
			merged[tn] = pkg
		}
	}
	hasManual := false
	for tn, pkg := range state.ManualPackages {
		if !state.IsHidden(tn) {
			merged[tn] = pkg
			hasManual = true
		}
	}

	visible := make([]model.Package, 0, len(merged))
	for _, pkg := range merged {
		visible = append(visible, pkg)
	}

	// Auto-only lists order by discovery time; once manual entries are in
	// the mix, last_updated is the only comparable recency key.
	sort.Slice(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		var at, bt time.Time
		if hasManual {
			at, bt = a.LastUpdated, b.LastUpdated
		} else {
			at, bt = a.FirstSeen, b.FirstSeen
		}
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.TrackingNumber < b.TrackingNumber
	})

	if len(visible) > e.opts.MaxPackages {
		visible = visible[:e.opts.MaxPackages]
	}
	return visible
}

// Summarize aggregates the visible list into per-carrier and per-origin
// counts.
func (e *Engine) Summarize(visible []model.Package, state *model.PersistedState) service.Summary {
	summary := service.Summary{
		ByCarrier:  make(map[string]int),
		ByRetailer: make(map[string]int),
		Total:      len(visible),
	}
	for _, pkg := range visible {
		summary.ByCarrier[pkg.Carrier]++
		summary.ByRetailer[pkg.Origin]++
		if pkg.Source == model.SourceManual {
			summary.Manual++
		}
	}
	if state != nil {
		summary.Hidden = len(state.Hidden)
	}
	return summary
}
