package carrier

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

// Resolve assigns a carrier, origin and tracking link to a candidate.
//
// Rules are applied in a fixed order and the first one that yields a
// carrier wins: URL-shaped tracking number, explicit link hints, the
// sender domain, tracking-number shape, digit-length buckets, and finally
// the sender domain string itself. Fields already present on the input
// candidate always take precedence over resolver-computed values.
func Resolve(candidate model.TrackingCandidate, senderDomain string) model.ResolvedCandidate {
	trackingNumber := strings.TrimSpace(candidate.TrackingNumber)
	trackingUpper := strings.ToUpper(trackingNumber)
	trackingLower := strings.ToLower(trackingNumber)

	link := candidate.Link
	carrier := candidate.Carrier

	if strings.HasPrefix(trackingLower, "http://") || strings.HasPrefix(trackingLower, "https://") {
		link = trackingNumber
		if carrier == "" {
			carrier = carrierFromLink(link)
		}
	}

	if carrier == "" && link != "" {
		carrier = carrierFromLink(link)
	}

	if carrier == "" {
		carrier = domainCarriers[senderDomain]
	}

	if carrier == "" && !strings.HasPrefix(trackingLower, "http") {
		switch {
		case USPSShape.MatchString(trackingUpper):
			carrier = "USPS"
		case UPSShape.MatchString(trackingUpper):
			carrier = "UPS"
		case FedExShape.MatchString(trackingUpper):
			carrier = "FedEx"
		}
	}

	// Last-resort digit-length buckets. Several carriers share numeric
	// formats, so this can misclassify; the buckets are kept as-is for
	// reproducibility.
	if carrier == "" && isDigits(trackingUpper) {
		switch length := len(trackingUpper); {
		case length == 12 || length == 15 || length == 20:
			carrier = "FedEx"
		case length == 22 || length == 30:
			carrier = "USPS"
		case length >= 26:
			carrier = "DHL"
		}
	}

	if carrier == "" {
		if senderDomain != "" {
			carrier = senderDomain
		} else {
			carrier = "Unknown"
		}
	}

	finalLink := candidate.Link
	if finalLink == "" {
		finalLink = link
	}
	if finalLink == "" {
		finalLink = TrackingLink(carrier, trackingNumber)
	}

	// Repair the malformed USPS template that ships a bare qtc_tLabels1
	// marker without a value.
	if strings.Contains(finalLink, "qtc_tLabels1") && !strings.Contains(finalLink, "qtc_tLabels1=") {
		prefix, _, _ := strings.Cut(finalLink, "qtc_tLabels1")
		finalLink = prefix + "qtc_tLabels1=" + trackingNumber
	}

	resolvedCarrier := candidate.Carrier
	if resolvedCarrier == "" {
		resolvedCarrier = carrier
	}

	origin := candidate.Origin
	if origin == "" {
		origin = senderDomain
	}
	if origin == "" {
		origin = carrier
	}

	slog.Debug("resolved candidate",
		"tracking_number", trackingNumber,
		"sender_domain", senderDomain,
		"carrier", resolvedCarrier)

	return model.ResolvedCandidate{TrackingCandidate: model.TrackingCandidate{
		EmailTimestamp: candidate.EmailTimestamp,
		TrackingNumber: trackingNumber,
		Carrier:        resolvedCarrier,
		Origin:         origin,
		Link:           finalLink,
	}}
}

// TrackingLink builds a tracking URL for a carrier, falling back to a
// search-engine query for carriers without a known template.
func TrackingLink(carrier, trackingNumber string) string {
	key := strings.ReplaceAll(strings.ToLower(carrier), " ", "_")
	base, ok := trackingURLs[key]
	if !ok {
		base = trackingURLs["unknown"]
	}
	return base + trackingNumber
}

func carrierFromLink(link string) string {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return ""
	}

	lowerLink := strings.ToLower(trimmed)
	target := lowerLink
	if !strings.HasPrefix(lowerLink, "http://") && !strings.HasPrefix(lowerLink, "https://") {
		target = "https://" + lowerLink
	}

	var host, path string
	if parsed, err := url.Parse(target); err == nil {
		host = parsed.Host
		path = parsed.Path
	}

	for _, entry := range linkHints {
		for _, hint := range entry.hints {
			if hint == "" {
				continue
			}
			if strings.Contains(lowerLink, hint) ||
				(host != "" && strings.Contains(host, hint)) ||
				(path != "" && strings.Contains(path, hint)) {
				return entry.carrier
			}
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
