package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	wayfairShippedSubjectRe = regexp.MustCompile(`(?i)track your package|your order is on the way|has shipped`)
	wayfairOrderBodyRe      = regexp.MustCompile(`(?i)Order[^0-9]*?(\d{10})`)
	wayfairOrderLinkQPRe    = regexp.MustCompile(`order_id=3D(\d+)`)
	wayfairOrderLinkRe      = regexp.MustCompile(`order_id=(\d+)`)
)

func parseWayfair(email model.EmailMessage) []model.TrackingCandidate {
	if !wayfairShippedSubjectRe.MatchString(email.Subject) {
		return nil
	}

	orderNumber := ""
	if m := wayfairOrderBodyRe.FindStringSubmatch(email.Body); m != nil {
		orderNumber = m[1]
	}

	for _, a := range anchors(parseHTML(email.Body)) {
		link := attr(a, "href")
		if link == "" || !strings.Contains(link, "track_package") {
			continue
		}

		if orderNumber == "" {
			if m := wayfairOrderLinkQPRe.FindStringSubmatch(link); m != nil {
				orderNumber = m[1]
			} else if m := wayfairOrderLinkRe.FindStringSubmatch(link); m != nil {
				orderNumber = m[1]
			}
		}
		if orderNumber == "" {
			break
		}
		return []model.TrackingCandidate{{
			TrackingNumber: orderNumber,
			Link:           link,
		}}
	}
	return nil
}
