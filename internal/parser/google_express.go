package parser

import (
	"github.com/parcelflow/parcelflow/internal/model"
)

func parseGoogleExpress(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	for _, img := range elements(parseHTML(email.Body), "img") {
		if attr(img, "alt") != "UPS" {
			continue
		}
		parentAnchors := anchors(img.Parent)
		if len(parentAnchors) == 0 {
			continue
		}
		tn := nodeText(parentAnchors[0])
		if tn == "" || containsTrackingNumber(out, tn) {
			continue
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}
	return out
}
