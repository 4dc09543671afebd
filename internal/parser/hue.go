package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

// Philips Hue orders ship through Luzern; the tracking number sits in
// plain text right before a tag boundary.
var hueTrackingRe = regexp.MustCompile(`tracking number is: (.*?)<`)

func parseHue(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	for _, m := range hueTrackingRe.FindAllStringSubmatch(email.Body, -1) {
		if containsTrackingNumber(out, m[1]) {
			continue
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: m[1]})
	}
	return out
}
