package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	aliExpressLabelRe = regexp.MustCompile(`TRACKING NUMBER :(.*?)\.`)
	aliExpressOrderRe = regexp.MustCompile(`orderId=(.*?)&`)
)

func parseAliExpress(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	root := parseHTML(email.Body)

	for _, p := range elements(root, "p") {
		line := nodeText(p)
		if line == "" {
			continue
		}
		m := aliExpressLabelRe.FindStringSubmatch(line)
		if m != nil && !containsTrackingNumber(out, m[1]) {
			out = append(out, model.TrackingCandidate{TrackingNumber: m[1]})
		}
	}

	for _, a := range anchors(root) {
		link := attr(a, "href")
		if link == "" {
			continue
		}
		m := aliExpressOrderRe.FindStringSubmatch(link)
		if m == nil || m[1] == "" || containsTrackingNumber(out, m[1]) {
			continue
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: m[1],
			Link:           link,
		})
	}
	return out
}
