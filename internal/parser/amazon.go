package parser

import (
	"regexp"

	"github.com/parcelflow/parcelflow/internal/model"
)

// Amazon ships two subject formats: the old "order # has shipped" style
// with the order number in the subject, and the newer "Shipped: ..." style
// where the order number only appears in the body.
var (
	amazonSmileSubjectRe = regexp.MustCompile(`Your AmazonSmile order #(.*?) has shipped`)
	amazonComSubjectRe   = regexp.MustCompile(`Your Amazon.com order #(.*?) has shipped`)
	amazonShippedRe      = regexp.MustCompile(`^Shipped:`)
	amazonOrderBodyRe    = regexp.MustCompile(`Order\s*#\s*\D*(\d{3}-\d{7}-\d{7})`)
	trackPackageTextRe   = regexp.MustCompile(`(?i)track package`)
)

func parseAmazon(email model.EmailMessage) []model.TrackingCandidate {
	var out []model.TrackingCandidate

	root := parseHTML(email.Body)

	m := amazonSmileSubjectRe.FindStringSubmatch(email.Subject)
	if m == nil {
		m = amazonComSubjectRe.FindStringSubmatch(email.Subject)
	}
	if m == nil {
		if !amazonShippedRe.MatchString(email.Subject) {
			return out
		}
		m = amazonOrderBodyRe.FindStringSubmatch(email.Body)
		if m == nil {
			return out
		}
	}
	orderNumber := m[1]

	for _, a := range anchors(root) {
		if !trackPackageTextRe.MatchString(nodeText(a)) {
			continue
		}
		link := attr(a, "href")
		if containsTrackingNumber(out, orderNumber) {
			continue
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: orderNumber,
			Link:           link,
		})
	}
	return out
}

func containsTrackingNumber(candidates []model.TrackingCandidate, tn string) bool {
	for _, c := range candidates {
		if c.TrackingNumber == tn {
			return true
		}
	}
	return false
}
