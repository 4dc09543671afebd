package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	ubiquitiShipmentSubjectRe = regexp.MustCompile(`A shipment from order #(.*?) is on the way`)
	ubiquitiOrderSubjectRe    = regexp.MustCompile(`Order ([A-Z]{2}\d+) (confirmed|shipped)`)
	ubiquitiShopifyLinkRe     = regexp.MustCompile(`/(\d{26})/orders/`)
)

// Ubiquiti sends both Shopify-templated and direct ui.com notifications;
// the order number is the only stable identifier across them.
func parseUbiquiti(email model.EmailMessage) []model.TrackingCandidate {
	orderNumber := ""
	if m := ubiquitiShipmentSubjectRe.FindStringSubmatch(email.Subject); m != nil {
		orderNumber = m[1]
	} else if m := ubiquitiOrderSubjectRe.FindStringSubmatch(email.Subject); m != nil {
		orderNumber = m[1]
	}
	if orderNumber == "" {
		return nil
	}

	orderLink := ""
	for _, a := range anchors(parseHTML(email.Body)) {
		href := attr(a, "href")
		if href == "" {
			continue
		}
		if ubiquitiShopifyLinkRe.MatchString(href) {
			orderLink = href
			break
		}
		// store.ui.com order links may arrive percent-encoded inside a
		// click-tracking wrapper.
		storeHost := strings.Contains(href, "store.ui.com") ||
			strings.Contains(href, "store%2Eui%2Ecom") ||
			strings.Contains(href, "%2Fstore.ui.com")
		if storeHost && (strings.Contains(href, "/order/") || strings.Contains(href, "%2Forder%2F")) {
			orderLink = href
			break
		}
		accountHost := strings.Contains(href, "account.ui.com") || strings.Contains(href, "account%2Eui%2Ecom")
		if accountHost && (strings.Contains(href, "/order") || strings.Contains(href, "%2Forder")) {
			orderLink = href
			break
		}
	}
	if orderLink == "" {
		return nil
	}

	return []model.TrackingCandidate{{
		TrackingNumber: orderNumber,
		Link:           orderLink,
	}}
}
