package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var genericLabeledRe = regexp.MustCompile(`(?i)tracking\s*(?:number|#)\s*[:\-]?\s*([A-Z0-9]{8,})`)

// parseGeneric is the catch-all for senders without a dedicated parser. It
// only accepts numbers with an explicit label or a known carrier shape, to
// keep false positives out of unrecognized templates.
func parseGeneric(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}
	text := nodeText(parseHTML(stripSoftBreaks(email.Body)))

	var out []model.TrackingCandidate
	add := func(tn string) {
		if tn == "" || containsTrackingNumber(out, tn) {
			return
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}

	for _, m := range genericLabeledRe.FindAllStringSubmatch(text, -1) {
		if carrier.MatchesKnownShape(m[1]) {
			add(m[1])
		}
	}
	for _, re := range []*regexp.Regexp{carrier.USPSInline, carrier.UPSInline} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, group := range m[1:] {
				if group != "" {
					add(group)
					break
				}
			}
		}
	}
	return out
}
