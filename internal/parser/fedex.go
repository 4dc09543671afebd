package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	fedexTracknumbersRe = regexp.MustCompile(`tracknumbers=(.*?)&`)
	fedexSubjectRe      = regexp.MustCompile(`FedEx Shipment (.*?): Your package is on its way`)
)

func parseFedEx(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate
	seen := make(map[string]bool)

	add := func(tn string) {
		if tn == "" || seen[tn] {
			return
		}
		seen[tn] = true
		out = append(out, model.TrackingCandidate{TrackingNumber: tn})
	}

	for _, a := range anchors(parseHTML(email.Body)) {
		link := attr(a, "href")
		if link == "" {
			continue
		}
		if m := fedexTracknumbersRe.FindStringSubmatch(link); m != nil {
			add(m[1])
		}
	}

	if m := fedexSubjectRe.FindStringSubmatch(email.Subject); m != nil {
		add(m[1])
	}
	return out
}
