package carrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelflow/parcelflow/internal/model"
)

func TestResolveCarrier(t *testing.T) {
	tests := []struct {
		name         string
		candidate    model.TrackingCandidate
		senderDomain string
		wantCarrier  string
	}{
		{
			name:         "UPS number from ups.com sender",
			candidate:    model.TrackingCandidate{TrackingNumber: "1Z999AA10123456784"},
			senderDomain: "ups.com",
			wantCarrier:  "UPS",
		},
		{
			name:         "URL tracking number resolves from link hints",
			candidate:    model.TrackingCandidate{TrackingNumber: "https://www.fedex.com/apps/fedextrack/?tracknumbers=123456789012"},
			senderDomain: "somestore.com",
			wantCarrier:  "FedEx",
		},
		{
			name: "explicit link wins over sender domain",
			candidate: model.TrackingCandidate{
				TrackingNumber: "ABC123XYZ9",
				Link:           "https://tools.usps.com/go/TrackConfirmAction?tLabels=ABC123XYZ9",
			},
			senderDomain: "somestore.com",
			wantCarrier:  "USPS",
		},
		{
			name:         "domain table beats shape matching",
			candidate:    model.TrackingCandidate{TrackingNumber: "9400100000000000000000"},
			senderDomain: "usps.com",
			wantCarrier:  "USPS",
		},
		{
			name:         "USPS shape from unknown sender",
			candidate:    model.TrackingCandidate{TrackingNumber: "9400100000000000000000"},
			senderDomain: "somestore.com",
			wantCarrier:  "USPS",
		},
		{
			name:         "UPS 1Z shape from unknown sender",
			candidate:    model.TrackingCandidate{TrackingNumber: "1Z999AA10123456784"},
			senderDomain: "somestore.com",
			wantCarrier:  "UPS",
		},
		{
			name:         "explicit carrier hint is never overridden",
			candidate:    model.TrackingCandidate{TrackingNumber: "1Z999AA10123456784", Carrier: "Veho"},
			senderDomain: "ups.com",
			wantCarrier:  "Veho",
		},
		{
			name:         "fallback to sender domain string",
			candidate:    model.TrackingCandidate{TrackingNumber: "ORDER-42"},
			senderDomain: "somestore.com",
			wantCarrier:  "somestore.com",
		},
		{
			name:        "fallback to Unknown without domain",
			candidate:   model.TrackingCandidate{TrackingNumber: "ORDER-42"},
			wantCarrier: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := Resolve(tt.candidate, tt.senderDomain)
			assert.Equal(t, tt.wantCarrier, resolved.Carrier)
			assert.NotEmpty(t, resolved.Origin)
			assert.NotEmpty(t, resolved.Link)
		})
	}
}

func TestResolveDigitBuckets(t *testing.T) {
	// The shape families claim most numeric lengths first (12/15/20/22
	// digits are FedEx shapes, 9 and 26 are UPS shapes); only lengths
	// outside every family reach the digit-length buckets.
	tests := []struct {
		number  string
		carrier string
	}{
		{"123456789012", "FedEx"},                  // 12 digits, FedEx shape
		{"1234567890123456789012", "FedEx"},        // 22 digits, FedEx shape
		{"12345678901234567890123456", "UPS"},      // 26 digits, UPS shape
		{"123456789012345678901234567890", "USPS"}, // 30 digits, bucket
		{"123456789012345678901234567", "DHL"},     // 27 digits, bucket
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			resolved := Resolve(model.TrackingCandidate{TrackingNumber: tt.number}, "somestore.com")
			require.Equal(t, tt.carrier, resolved.Carrier)
		})
	}
}

func TestResolveBuildsTrackingLink(t *testing.T) {
	resolved := Resolve(model.TrackingCandidate{TrackingNumber: "1Z999AA10123456784"}, "ups.com")
	assert.Contains(t, resolved.Link, "tracknum=1Z999AA10123456784")

	resolved = Resolve(model.TrackingCandidate{TrackingNumber: "XYZ123"}, "")
	assert.Equal(t, "https://www.google.com/search?q=XYZ123", resolved.Link)
}

func TestResolveKeepsExplicitFields(t *testing.T) {
	resolved := Resolve(model.TrackingCandidate{
		TrackingNumber: "1Z999AA10123456784",
		Link:           "https://example.com/my-link",
		Origin:         "House of Noa",
	}, "ups.com")

	assert.Equal(t, "https://example.com/my-link", resolved.Link)
	assert.Equal(t, "House of Noa", resolved.Origin)
}

func TestResolveRepairsUSPSLabelMarker(t *testing.T) {
	resolved := Resolve(model.TrackingCandidate{
		TrackingNumber: "9400100000000000000000",
		Link:           "https://tools.usps.com/go/TrackConfirmAction?qtc_tLabels1",
	}, "moen.com")

	assert.Equal(t,
		"https://tools.usps.com/go/TrackConfirmAction?qtc_tLabels1=9400100000000000000000",
		resolved.Link)
}

func TestTrackingLink(t *testing.T) {
	assert.Equal(t,
		"https://www.swisspost.ch/track?formattedParcelCodes=99.00.111111.22222222",
		TrackingLink("Swiss Post", "99.00.111111.22222222"))
	assert.Equal(t,
		"https://www.google.com/search?q=ABC",
		TrackingLink("Some Courier", "ABC"))
}

func TestMatchesKnownShape(t *testing.T) {
	assert.True(t, MatchesKnownShape("1Z999AA10123456784"))
	assert.True(t, MatchesKnownShape("9400100000000000000000"))
	assert.True(t, MatchesKnownShape("123456789012"))
	assert.False(t, MatchesKnownShape("not-a-number"))
	assert.False(t, MatchesKnownShape(""))
}
