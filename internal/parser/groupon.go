package parser

import (
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

func parseGroupon(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	for _, a := range anchors(parseHTML(email.Body)) {
		link := attr(a, "href")
		if link == "" || !strings.Contains(link, "track_order") {
			continue
		}
		tn := nodeText(a)
		// The template also links the word "here" to the order page.
		if tn == "" || tn == "here" || containsTrackingNumber(out, tn) {
			continue
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}
	return out
}
