package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	targetTLMDRe = regexp.MustCompile(`Target Local Delivery \(TLMD\)\s*Tracking #\s*(\S+)`)
	targetUPSRe  = regexp.MustCompile(`United Parcel Service Tracking # (\S{18})`)
)

func parseTarget(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate
	add := func(tn string) {
		if tn == "" || containsTrackingNumber(out, tn) {
			return
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}

	for _, p := range elements(parseHTML(email.Body), "p") {
		text := nodeText(p)
		if text == "" {
			continue
		}
		if m := targetTLMDRe.FindStringSubmatch(text); m != nil {
			add(m[1])
			continue
		}
		if m := targetUPSRe.FindStringSubmatch(text); m != nil {
			add(m[1])
		}
	}
	return out
}
