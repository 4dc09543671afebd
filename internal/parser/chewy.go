package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	chewyTrackLinkRe   = regexp.MustCompile(`(?i)https?://www\.chewy\.com/app/account/order-details/track\?[^"'\s<>]+`)
	chewyOrderNumberRe = regexp.MustCompile(`(?i)Order\s*#\s*([0-9]+)`)
)

// Chewy ships through its own delivery network, so the tracking link points
// back at chewy.com; the order and package IDs identify the shipment.
func parseChewy(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}

	var out []model.TrackingCandidate
	for _, rawLink := range chewyTrackLinkRe.FindAllString(email.Body, -1) {
		entry, ok := chewyEntryFromLink(rawLink)
		if !ok || containsTrackingNumber(out, entry.TrackingNumber) {
			continue
		}
		out = append(out, entry)
	}
	if len(out) > 0 {
		return out
	}

	// Fallback when the template carries no direct link: treat the order
	// number as the shipment identifier.
	text := nodeText(parseHTML(email.Body))
	for _, m := range chewyOrderNumberRe.FindAllStringSubmatch(text, -1) {
		orderID := strings.TrimSpace(m[1])
		if orderID == "" || containsTrackingNumber(out, orderID) {
			continue
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: orderID,
			Carrier:        "Chewy",
			Link:           "https://www.chewy.com/app/account/order-details/track?orderId=" + orderID,
		})
	}
	return out
}

func chewyEntryFromLink(rawLink string) (model.TrackingCandidate, bool) {
	decoded := cleanLink(rawLink)
	parsed, err := url.Parse(decoded)
	if err != nil {
		return model.TrackingCandidate{}, false
	}
	if !strings.Contains(parsed.Host, "chewy.com") || !strings.HasSuffix(parsed.Path, "/track") {
		return model.TrackingCandidate{}, false
	}

	params := parsed.Query()
	orderID := strings.TrimSpace(params.Get("orderId"))
	packageID := strings.TrimSpace(params.Get("packageId"))

	canonical := decoded
	if orderID != "" || packageID != "" {
		q := url.Values{}
		if orderID != "" {
			q.Set("orderId", orderID)
		}
		if packageID != "" {
			q.Set("packageId", packageID)
		}
		canonical = "https://www.chewy.com/app/account/order-details/track?" + q.Encode()
	}

	var parts []string
	for _, p := range []string{orderID, packageID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	trackingID := strings.Join(parts, "-")
	if trackingID == "" {
		trackingID = decoded
	}

	return model.TrackingCandidate{
		TrackingNumber: trackingID,
		Carrier:        "Chewy",
		Link:           canonical,
	}, true
}
