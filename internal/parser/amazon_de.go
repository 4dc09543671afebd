package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	amazonDEOrderBodyRe    = regexp.MustCompile(`Order: #(.*?)\n`)
	amazonDESubjectRe      = regexp.MustCompile(`Your Amazon.de order of (.*?) has been dispatched!`)
	trackYourPackageTextRe = regexp.MustCompile(`(?i)track your package`)
)

func parseAmazonDE(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	root := parseHTML(email.Body)

	m := amazonDEOrderBodyRe.FindStringSubmatch(email.Body)
	if m == nil {
		m = amazonDESubjectRe.FindStringSubmatch(email.Subject)
	}
	if m == nil {
		return out
	}
	orderNumber := m[1]

	for _, a := range anchors(root) {
		if !trackYourPackageTextRe.MatchString(nodeText(a)) {
			continue
		}
		if containsTrackingNumber(out, orderNumber) {
			continue
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: orderNumber,
			Link:           attr(a, "href"),
		})
	}
	return out
}
