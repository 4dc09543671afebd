package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var sonyTrackingRe = regexp.MustCompile(`tracking_numbers=(.*?)&`)

func parseSony(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	for _, m := range sonyTrackingRe.FindAllStringSubmatch(email.Body, -1) {
		if containsTrackingNumber(out, m[1]) {
			continue
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: m[1]})
	}
	return out
}
