package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	homeDepotLabelRe    = regexp.MustCompile(`(?i)tracking\s*number`)
	homeDepotLineRe     = regexp.MustCompile(`(?i)(?:tracking\s*(?:number|#)\s*[:\-]?\s*)([A-Z0-9\s-]{8,})`)
	homeDepotOrderRe    = regexp.MustCompile(`(?i)order\s*#\s*([A-Za-z]{2}\d{8})`)
	homeDepotNonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)
	homeDepotSepRe      = regexp.MustCompile(`[\s-]+`)
	hasDigitRe          = regexp.MustCompile(`[0-9]`)
)

var homeDepotQueryKeys = []string{"tracking", "trackingnumber", "tracking_number"}

// Home Depot templates break tracking numbers across spans and routing
// links, so extraction works over joined tokens and normalized hrefs, then
// validates against the known carrier shapes.
func parseHomeDepot(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}

	body := email.Body
	if strings.Contains(body, "=\r") || strings.Contains(body, "=\n") {
		body = decodeQuotedPrintable(body)
	}

	root := parseHTML(body)
	unifiedText := nodeText(root)

	var out []model.TrackingCandidate
	seen := map[string]bool{}
	add := func(tn, link string) {
		normalized := strings.ToUpper(tn)
		if normalized == "" || seen[normalized] {
			return
		}
		seen[normalized] = true
		out = append(out, model.TrackingCandidate{TrackingNumber: normalized, Link: link})
	}

	for _, a := range anchors(root) {
		rawHref := attr(a, "href")
		if rawHref == "" {
			continue
		}
		href := normalizeHref(rawHref)

		if tn := homeDepotTrackingFromLink(href); tn != "" {
			add(tn, href)
			continue
		}
		for _, candidate := range homeDepotJoinTokens(nodeText(a)) {
			add(candidate, href)
		}
	}

	// Explicit "Tracking Number" labels within structured markup.
	for _, label := range textNodes(root, homeDepotLabelRe.MatchString) {
		if label.Parent == nil {
			continue
		}
		for _, m := range homeDepotLineRe.FindAllStringSubmatch(nodeText(label.Parent), -1) {
			if tn := homeDepotNormalize(m[1]); tn != "" {
				add(tn, "")
			}
		}
	}

	for _, m := range homeDepotLineRe.FindAllStringSubmatch(unifiedText, -1) {
		if tn := homeDepotNormalize(m[1]); tn != "" {
			add(tn, "")
		}
	}
	return out
}

func homeDepotTrackingFromLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if !strings.Contains(strings.ToLower(parsed.Host), "link.order.homedepot.com") {
		return ""
	}
	params := parsed.Query()
	for _, key := range homeDepotQueryKeys {
		for _, value := range params[key] {
			if tn := homeDepotNormalize(value); tn != "" {
				return tn
			}
		}
	}
	return ""
}

// homeDepotJoinTokens rebuilds tracking numbers the template split across
// whitespace, accumulating digit-bearing tokens until the joined run stops
// looking like a tracking number.
func homeDepotJoinTokens(text string) []string {
	var matches []string
	var parts []string

	flush := func() {
		if len(parts) == 0 {
			return
		}
		if tn := homeDepotNormalize(strings.Join(parts, "")); tn != "" {
			matches = append(matches, tn)
		}
		parts = parts[:0]
	}

	for _, token := range strings.Fields(text) {
		cleaned := homeDepotNonAlnumRe.ReplaceAllString(token, "")
		if cleaned == "" {
			flush()
			continue
		}
		cleaned = strings.ToUpper(cleaned)
		if hasDigitRe.MatchString(cleaned) {
			parts = append(parts, cleaned)
			continue
		}
		if len(parts) > 0 {
			joined := strings.Join(parts, "") + cleaned
			if homeDepotNormalize(joined) != "" {
				parts = append(parts, cleaned)
				continue
			}
			flush()
		}
	}
	flush()
	return matches
}

func homeDepotNormalize(candidate string) string {
	normalized := strings.ToUpper(homeDepotSepRe.ReplaceAllString(candidate, ""))
	if len(normalized) < 10 {
		return ""
	}
	if carrier.MatchesKnownShape(normalized) {
		return normalized
	}
	return ""
}
