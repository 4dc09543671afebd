package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var upsTracknumRe = regexp.MustCompile(`tracknum=(.*?)&`)

func parseUPS(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate
	seen := make(map[string]bool)

	for _, a := range anchors(parseHTML(email.Body)) {
		link := attr(a, "href")
		if link == "" {
			continue
		}
		m := upsTracknumRe.FindStringSubmatch(link)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, model.TrackingCandidate{TrackingNumber: m[1]})
	}
	return out
}
