package parser

import (
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

func parseEbay(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	for _, span := range elements(parseHTML(email.Body), "span") {
		if !strings.Contains(nodeText(span), "Tracking Number") {
			continue
		}
		trackingLink := directAnchor(span)
		if trackingLink == nil {
			continue
		}
		tn := nodeText(trackingLink)
		if tn == "" || containsTrackingNumber(out, tn) {
			continue
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}
	return out
}
