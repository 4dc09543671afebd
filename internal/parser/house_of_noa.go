package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	houseOfNoaTrackParamRe = regexp.MustCompile(`(?i)tracknums(?:=|%3D)([A-Z0-9]+)`)
	houseOfNoaNonAlnumRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func parseHouseOfNoa(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}
	body := decodeQuotedPrintable(email.Body)
	root := parseHTML(body)

	var out []model.TrackingCandidate
	add := func(tn, link string) {
		if tn == "" || containsTrackingNumber(out, tn) {
			return
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: tn,
			Origin:         "House of Noa",
			Link:           link,
		})
	}

	for _, a := range anchors(root) {
		href := decodeQuotedPrintable(attr(a, "href"))
		if href == "" {
			continue
		}
		m := houseOfNoaTrackParamRe.FindStringSubmatch(href)
		if m == nil {
			continue
		}
		add(houseOfNoaNormalize(m[1]), href)
	}

	// Fallback: scan the visible text for 1Z numbers.
	for _, candidate := range carrier.UPSInline.FindAllString(nodeText(root), -1) {
		add(houseOfNoaNormalize(candidate), "")
	}
	return out
}

func houseOfNoaNormalize(value string) string {
	normalized := strings.ToUpper(houseOfNoaNonAlnumRe.ReplaceAllString(value, ""))
	if normalized == "" || !carrier.UPSShape.MatchString(normalized) {
		return ""
	}
	return normalized
}
