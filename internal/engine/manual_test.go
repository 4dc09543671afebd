package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelflow/parcelflow/internal/common"
	"github.com/parcelflow/parcelflow/internal/model"
)

const testAccount = "user@example.com"

func TestAddManualGeneratesFallbacks(t *testing.T) {
	eng, store := newTestEngine(t, Options{})
	ctx := context.Background()

	// A number no parser ever produced still becomes a visible manual
	// package with a search-engine fallback link.
	visible, err := eng.AddManual(ctx, testAccount, ManualPackageInput{TrackingNumber: "XYZ123"})
	require.NoError(t, err)
	require.Len(t, visible, 1)

	pkg := visible[0]
	assert.Equal(t, "XYZ123", pkg.TrackingNumber)
	assert.Equal(t, model.SourceManual, pkg.Source)
	assert.Equal(t, "Unknown", pkg.Carrier)
	assert.Equal(t, "Unknown", pkg.Origin)
	assert.Equal(t, "https://www.google.com/search?q=XYZ123", pkg.Link)

	state, err := store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	assert.Contains(t, state.ManualPackages, "XYZ123")
}

func TestAddManualKeepsPriorFields(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})
	ctx := context.Background()

	_, err := eng.AddManual(ctx, testAccount, ManualPackageInput{
		TrackingNumber: "XYZ123",
		Carrier:        "DHL",
		Origin:         "somestore.com",
	})
	require.NoError(t, err)

	// Re-adding without fields keeps the earlier values.
	visible, err := eng.AddManual(ctx, testAccount, ManualPackageInput{TrackingNumber: "XYZ123"})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "DHL", visible[0].Carrier)
	assert.Equal(t, "somestore.com", visible[0].Origin)
}

func TestAddManualUnhides(t *testing.T) {
	eng, store := newTestEngine(t, Options{})
	ctx := context.Background()
	now := time.Now()
	eng.now = func() time.Time { return now }

	// Discover, then hide, then re-add manually.
	state, err := store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	eng.Reconcile([]Batch{resolvedBatch("ups.com", autoCandidate("1Z999AA10123456784", now))}, state)
	require.NoError(t, store.SaveState(ctx, testAccount, state))

	_, err = eng.Remove(ctx, testAccount, "1Z999AA10123456784")
	require.NoError(t, err)

	state, err = store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	require.True(t, state.IsHidden("1Z999AA10123456784"))

	visible, err := eng.AddManual(ctx, testAccount, ManualPackageInput{TrackingNumber: "1Z999AA10123456784"})
	require.NoError(t, err)

	state, err = store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	assert.False(t, state.IsHidden("1Z999AA10123456784"))

	require.Len(t, visible, 1)
	assert.Equal(t, model.SourceManual, visible[0].Source)
}

func TestAddManualValidation(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})

	_, err := eng.AddManual(context.Background(), testAccount, ManualPackageInput{TrackingNumber: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyTrackingNumber)
}

func TestRemoveManualDeletesOutright(t *testing.T) {
	eng, store := newTestEngine(t, Options{})
	ctx := context.Background()

	_, err := eng.AddManual(ctx, testAccount, ManualPackageInput{TrackingNumber: "XYZ123"})
	require.NoError(t, err)

	visible, err := eng.Remove(ctx, testAccount, "XYZ123")
	require.NoError(t, err)
	assert.Empty(t, visible)

	// Deleting a manual entry does not hide the number.
	state, err := store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	assert.NotContains(t, state.ManualPackages, "XYZ123")
	assert.False(t, state.IsHidden("XYZ123"))
}

func TestRemoveAutoHides(t *testing.T) {
	eng, store := newTestEngine(t, Options{})
	ctx := context.Background()
	now := time.Now()
	eng.now = func() time.Time { return now }

	state, err := store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	eng.Reconcile([]Batch{resolvedBatch("ups.com", autoCandidate("1Z1", now))}, state)
	require.NoError(t, store.SaveState(ctx, testAccount, state))

	visible, err := eng.Remove(ctx, testAccount, "1Z1")
	require.NoError(t, err)
	assert.Empty(t, visible)

	state, err = store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	assert.True(t, state.IsHidden("1Z1"))
	assert.NotContains(t, state.Packages, "1Z1")
}

func TestRemoveValidation(t *testing.T) {
	eng, _ := newTestEngine(t, Options{})

	_, err := eng.Remove(context.Background(), testAccount, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyTrackingNumber)
}

func TestUnhide(t *testing.T) {
	eng, store := newTestEngine(t, Options{})
	ctx := context.Background()

	state, err := store.LoadState(ctx, testAccount)
	require.NoError(t, err)
	state.Hide("1Z1")
	require.NoError(t, store.SaveState(ctx, testAccount, state))

	unhidden, err := eng.Unhide(ctx, testAccount, "1Z1")
	require.NoError(t, err)
	assert.True(t, unhidden)

	// Unhiding an unknown number is a no-op.
	unhidden, err = eng.Unhide(ctx, testAccount, "1Z1")
	require.NoError(t, err)
	assert.False(t, unhidden)
}
