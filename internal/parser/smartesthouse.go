package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	smartestHouseLegacyQueryRe = regexp.MustCompile(`tracking_number=([0-9]+)`)
	smartestHouseFlexUSPSRe    = regexp.MustCompile(`94[\d\s-]{20,}`)
	smartestHouseSepRe         = regexp.MustCompile(`[\s-]+`)
)

// The Smartest House templates carry tracking numbers in several places at
// once: anchor text, legacy query parameters and soft-wrapped USPS numbers
// in prose, in both the raw and quoted-printable-decoded body.
func parseSmartestHouse(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}

	var out []model.TrackingCandidate
	add := func(number string) {
		normalized := strings.TrimSpace(smartestHouseSepRe.ReplaceAllString(number, ""))
		if normalized == "" || containsTrackingNumber(out, normalized) {
			return
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: normalized})
	}

	targets := smartestHouseTargets(email.Body)
	if decoded := decodeQuotedPrintable(email.Body); decoded != email.Body {
		targets = append(targets, smartestHouseTargets(decoded)...)
	}

	for _, target := range targets {
		if target == "" {
			continue
		}
		for _, m := range smartestHouseLegacyQueryRe.FindAllStringSubmatch(target, -1) {
			add(m[1])
		}
		if carrier.MatchesKnownShape(target) {
			add(target)
		}
		for _, m := range smartestHouseFlexUSPSRe.FindAllString(target, -1) {
			add(m)
		}
	}

	// Legacy tracking_number parameters may only exist in encoded links.
	for _, m := range smartestHouseLegacyQueryRe.FindAllStringSubmatch(email.Body, -1) {
		add(m[1])
	}
	return out
}

func smartestHouseTargets(body string) []string {
	root := parseHTML(body)
	targets := []string{nodeText(root)}
	for _, a := range anchors(root) {
		if text := nodeText(a); text != "" {
			targets = append(targets, text)
		}
		if href := attr(a, "href"); href != "" {
			targets = append(targets, normalizeHref(href))
		}
	}
	return targets
}
