package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/common"
	"github.com/parcelflow/parcelflow/internal/model"
)

// ManualPackageInput carries the caller-supplied fields for a manual add.
// Everything but the tracking number is optional.
type ManualPackageInput struct {
	TrackingNumber string
	Link           string
	Carrier        string
	Origin         string
	Status         string
}

// AddManual upserts a manual package. Missing fields fall back to the
// prior manual entry for the same number, then to placeholders; adding a
// hidden number un-hides it. Returns the recomputed visible list.
func (e *Engine) AddManual(ctx context.Context, account string, input ManualPackageInput) ([]model.Package, error) {
	trackingNumber := strings.TrimSpace(input.TrackingNumber)
	if trackingNumber == "" {
		return nil, common.NewUserError("tracking number is required", common.ErrEmptyTrackingNumber)
	}

	lock := e.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.LoadState(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", trackingNumber, err)
	}

	prior, hadPrior := state.ManualPackages[trackingNumber]
	now := e.now()

	carrierName := firstNonEmpty(input.Carrier, prior.Carrier, "Unknown")
	origin := firstNonEmpty(input.Origin, prior.Origin, "Unknown")
	link := firstNonEmpty(input.Link, prior.Link)
	if link == "" {
		link = carrier.TrackingLink(carrierName, trackingNumber)
	}

	firstSeen := now
	if hadPrior {
		firstSeen = prior.FirstSeen
	}

	state.Unhide(trackingNumber)
	state.ManualPackages[trackingNumber] = model.Package{
		TrackingNumber: trackingNumber,
		Carrier:        carrierName,
		Origin:         origin,
		Link:           link,
		Status:         firstNonEmpty(input.Status, prior.Status),
		FirstSeen:      firstSeen,
		LastUpdated:    now,
		RetailerCode:   model.RetailerCode(origin),
		CarrierCode:    model.CarrierCode(carrierName),
		Source:         model.SourceManual,
	}

	if err := e.store.SaveState(ctx, account, state); err != nil {
		return nil, fmt.Errorf("add %s: %w", trackingNumber, err)
	}
	return e.Visible(state), nil
}

// Remove deletes a manual package outright, or hides an auto-discovered
// number so future scans keep it out of the visible list. Both branches
// count as removed.
func (e *Engine) Remove(ctx context.Context, account, trackingNumber string) ([]model.Package, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, common.NewUserError("tracking number is required", common.ErrEmptyTrackingNumber)
	}

	lock := e.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.LoadState(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", trackingNumber, err)
	}

	if _, isManual := state.ManualPackages[trackingNumber]; isManual {
		delete(state.ManualPackages, trackingNumber)
	} else {
		state.Hide(trackingNumber)
		delete(state.Packages, trackingNumber)
	}

	if err := e.store.SaveState(ctx, account, state); err != nil {
		return nil, fmt.Errorf("remove %s: %w", trackingNumber, err)
	}
	return e.Visible(state), nil
}

// Unhide removes a tracking number from the hidden list. It reports
// whether the number was hidden; unhiding an unknown number is a no-op.
func (e *Engine) Unhide(ctx context.Context, account, trackingNumber string) (bool, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return false, common.NewUserError("tracking number is required", common.ErrEmptyTrackingNumber)
	}

	lock := e.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.LoadState(ctx, account)
	if err != nil {
		return false, fmt.Errorf("unhide %s: %w", trackingNumber, err)
	}

	if !state.Unhide(trackingNumber) {
		return false, nil
	}

	if err := e.store.SaveState(ctx, account, state); err != nil {
		return false, fmt.Errorf("unhide %s: %w", trackingNumber, err)
	}
	return true, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
