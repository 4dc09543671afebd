package parser

import (
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

func parseNuleaf(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	for _, a := range anchors(parseHTML(email.Body)) {
		link := attr(a, "href")
		if link == "" || !strings.Contains(link, "emailtrk") {
			continue
		}
		tn := nodeText(a)
		if tn == "" || containsTrackingNumber(out, tn) {
			continue
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}
	return out
}
