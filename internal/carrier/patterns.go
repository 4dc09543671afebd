// Package carrier holds the static tracking-number pattern tables and the
// heuristic that assigns a carrier and tracking link to a candidate.
package carrier

import "regexp"

// Tracking link templates, keyed by lower-cased, underscore-joined carrier
// name. The unknown entry is the generic search fallback.
var trackingURLs = map[string]string{
	"ups":        "https://www.ups.com/track?loc=en_US&tracknum=",
	"usps":       "https://tools.usps.com/go/TrackConfirmAction?tLabels=",
	"fedex":      "https://www.fedex.com/apps/fedextrack/?tracknumbers=",
	"dhl":        "https://www.logistics.dhl/us-en/home/tracking/tracking-parcel.html?submit=1&tracking-id=",
	"swiss_post": "https://www.swisspost.ch/track?formattedParcelCodes=",
	"veho":       "https://track.shipveho.com/#/trackingId/",
	"unknown":    "https://www.google.com/search?q=",
}

// Full-shape families. Each branch is anchored, so MatchString is a full
// match against one of the accepted shapes.
var (
	// USPSShape matches USPS IMpb, certified, money order and
	// international (UPU S10) formats.
	USPSShape = regexp.MustCompile(`(^(94|93|92|95)[0-9]{20}$)|(^(94|93|92|95)[0-9]{22}$)|(^(70|14|23|03)[0-9]{14}$)|(^(M0|82)[0-9]{8}$)|(^[A-Z]{2}[0-9]{9}[A-Z]{2}$)`)

	// UPSShape matches 1Z numbers plus the short T and numeric formats.
	UPSShape = regexp.MustCompile(`(^1Z[0-9A-Z]{16}$)|(^T[0-9A-Z]{10}$)|(^[0-9]{9}$)|(^[0-9]{26}$)`)

	// FedExShape matches the purely numeric FedEx formats.
	FedExShape = regexp.MustCompile(`(^[0-9]{20}$)|(^[0-9]{15}$)|(^[0-9]{12}$)|(^[0-9]{22}$)`)
)

// Inline variants for scanning free text, used by parsers that pull
// tracking numbers out of prose rather than structured markup.
var (
	USPSInline  = regexp.MustCompile(`\b(94\d{20}|\d{4}\s\d{4}\s\d{4}\s\d{4}\s\d{4}\s\d{2})\b`)
	UPSInline   = regexp.MustCompile(`\b(1Z[A-HJ-NP-Z0-9]{16})\b`)
	FedExInline = regexp.MustCompile(`\b(\d{12})\b`)
)

// MatchesKnownShape reports whether the value fully matches any known
// carrier tracking-number family.
func MatchesKnownShape(value string) bool {
	return USPSShape.MatchString(value) ||
		UPSShape.MatchString(value) ||
		FedExShape.MatchString(value)
}

// linkHint associates substrings of a tracking URL with a carrier. Hints
// are evaluated in order so classification is deterministic.
type linkHint struct {
	carrier string
	hints   []string
}

var linkHints = []linkHint{
	{"UPS", []string{"ups.com"}},
	{"USPS", []string{"usps.com", "trackconfirmaction"}},
	{"FedEx", []string{"fedex.com", "fedextrack"}},
	{"DHL", []string{"dhl.com", "logistics.dhl", "dhl.de"}},
	{"Swiss Post", []string{"swisspost.ch"}},
	{"Veho", []string{"shipveho.com"}},
}

// Carriers that notify recipients directly; keyed by the sender-domain
// match strings used by the parser registry.
var domainCarriers = map[string]string{
	"ups.com":      "UPS",
	"fedex.com":    "FedEx",
	"usps.com":     "USPS",
	"dhl":          "DHL",
	"swisspost.ch": "Swiss Post",
}
