package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

// USPS links carry the tracking number under two different query keys
// depending on the notification template.
var (
	uspsSelectedRe = regexp.MustCompile(`selectedTrckNum=(.*?)&`)
	uspsLabelsRe   = regexp.MustCompile(`tLabels=(.*?)&`)
)

func parseUSPS(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate
	seen := make(map[string]bool)

	add := func(tn string) {
		if tn == "" || seen[tn] {
			return
		}
		seen[tn] = true
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}

	for _, a := range anchors(parseHTML(email.Body)) {
		link := attr(a, "href")
		if link == "" {
			continue
		}
		if m := uspsSelectedRe.FindStringSubmatch(link); m != nil {
			add(m[1])
		}
		if m := uspsLabelsRe.FindStringSubmatch(link); m != nil {
			add(m[1])
		}
	}
	return out
}
