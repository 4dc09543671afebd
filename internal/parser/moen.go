package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	moenOrderRe    = regexp.MustCompile(`(?i)order\s*(\d+)`)
	moenTrackingRe = regexp.MustCompile(`(\d{10,})`)
)

func parseMoen(email model.EmailMessage) []model.TrackingCandidate {
	m := moenOrderRe.FindStringSubmatch(email.Subject)
	if m == nil {
		return nil
	}
	orderNumber := m[1]

	body := decodeQuotedPrintable(email.Body)

	for _, a := range anchors(parseHTML(body)) {
		link := strings.TrimSpace(attr(a, "href"))
		if link == "" || !strings.Contains(link, "TrackConfirmAction") {
			continue
		}

		trackingNumber := orderNumber
		if tm := moenTrackingRe.FindStringSubmatch(nodeText(a)); tm != nil {
			trackingNumber = tm[1]
		}

		// Rewrite the USPS label parameter so the link resolves even when
		// the template mangles it.
		if base, _, found := strings.Cut(link, "qtc_tLabels1="); found {
			link = base + "qtc_tLabels1=" + trackingNumber
		}

		return []model.TrackingCandidate{{
			TrackingNumber: trackingNumber,
			Link:           link,
			Carrier:        "USPS",
			Origin:         "moen.com",
		}}
	}
	return nil
}
