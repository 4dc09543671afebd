package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	etsyTrackLinkTextRe = regexp.MustCompile(`(?i)track\s+package`)
	etsyOrderNumberRe   = regexp.MustCompile(`#\s*(\d+)`)
)

// Etsy never exposes the carrier tracking number in email, only a "Track
// Package" link, so the order number stands in for the tracking number.
func parseEtsy(email model.EmailMessage) []model.TrackingCandidate {
	root := parseHTML(email.Body)

	orderNumber := ""
	if m := etsyOrderNumberRe.FindStringSubmatch(email.Subject); m != nil {
		orderNumber = m[1]
	}
	if orderNumber == "" {
		if m := etsyOrderNumberRe.FindStringSubmatch(nodeText(root)); m != nil {
			orderNumber = m[1]
		}
	}
	if orderNumber == "" {
		return nil
	}

	trackingLink := ""
	for _, a := range anchors(root) {
		if !etsyTrackLinkTextRe.MatchString(nodeText(a)) {
			continue
		}
		if href := attr(a, "href"); href != "" {
			trackingLink = normalizeHref(href)
			break
		}
	}
	if trackingLink == "" {
		return nil
	}

	return []model.TrackingCandidate{{
		TrackingNumber: orderNumber,
		Link:           trackingLink,
	}}
}
