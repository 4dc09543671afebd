package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var switchbotLabeledRe = regexp.MustCompile(`(?i)tracking number:\s*([A-Za-z0-9]+)`)

func parseSwitchBot(email model.EmailMessage) []model.TrackingCandidate {
	body := stripSoftBreaks(email.Body)
	text := nodeText(parseHTML(body))

	var out []model.TrackingCandidate
	add := func(tn string) {
		if tn == "" || containsTrackingNumber(out, tn) {
			return
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}

	for _, m := range switchbotLabeledRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	for _, re := range []*regexp.Regexp{carrier.FedExInline, carrier.UPSInline, carrier.USPSInline} {
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
