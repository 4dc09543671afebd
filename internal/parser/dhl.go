package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

// DHL notification links embed the tracking number in an idc parameter;
// the raw body is scanned directly since the links sit in attributes.
var dhlIdcRe = regexp.MustCompile(`idc=(.*?)"`)

func parseDHL(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate
	seen := make(map[string]bool)

	for _, m := range dhlIdcRe.FindAllStringSubmatch(email.Body, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, model.TrackingCandidate{TrackingNumber: m[1]})
	}
	return out
}
