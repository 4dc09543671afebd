package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

var dswTrackingParamRe = regexp.MustCompile(`(?i)tracking_numbers(?:=|%3[dD])([^&"'>\s]+)`)

var dswCarrierNames = map[string]string{
	"FEDEX": "FedEx",
	"UPS":   "UPS",
	"USPS":  "USPS",
}

// DSW tracking links route through a redirector whose path carries the
// carrier code: /ftracking/<CODE>/...?tracking_numbers=...
func parseDSW(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}
	body := decodeQuotedPrintable(email.Body)

	var out []model.TrackingCandidate
	add := func(number, link, carrier string) {
		tn := strings.TrimSpace(number)
		if tn == "" || containsTrackingNumber(out, tn) {
			return
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: tn,
			Link:           link,
			Carrier:        carrier,
		})
	}

	for _, a := range anchors(parseHTML(body)) {
		href := attr(a, "href")
		if href == "" || !strings.Contains(strings.ToLower(href), "tracking_numbers") {
			continue
		}

		decoded, err := url.QueryUnescape(href)
		if err != nil {
			decoded = href
		}
		parsed, err := url.Parse(decoded)
		if err != nil {
			continue
		}

		carrier := ""
		parts := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
		if len(parts) >= 2 && strings.EqualFold(parts[0], "ftracking") {
			code := strings.ToUpper(parts[1])
			if name, ok := dswCarrierNames[code]; ok {
				carrier = name
			} else if len(code) > 1 {
				carrier = code[:1] + strings.ToLower(code[1:])
			} else {
				carrier = code
			}
		}

		for _, candidate := range parsed.Query()["tracking_numbers"] {
			add(candidate, decoded, carrier)
		}
	}

	if len(out) == 0 {
		for _, m := range dswTrackingParamRe.FindAllStringSubmatch(body, -1) {
			add(m[1], "", "")
		}
	}
	return out
}
