package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	thriftTrackCopyRe    = regexp.MustCompile(`(?i)track\s+(?:my\s+)?package`)
	thriftOrderLabelRe   = regexp.MustCompile(`(?i)order\s*(?:number|#)`)
	thriftOrderDigitsRe  = regexp.MustCompile(`\d{6,}`)
	thriftOrderNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Order\s*#\s*:?\s*(\d+)`),
		regexp.MustCompile(`(?i)Order\s+Number\s*:?\s*#?\s*(\d+)`),
	}
)

// ThriftBooks routes tracking through Narvar; the best candidate link is
// chosen by anchor copy, preferring explicit "track package" text.
func parseThriftBooks(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}
	body := email.Body
	if strings.Contains(body, "=\r") || strings.Contains(body, "=\n") {
		body = decodeQuotedPrintable(body)
	}

	root := parseHTML(body)
	text := nodeText(root)

	trackLink := thriftBestTrackLink(root)

	var out []model.TrackingCandidate
	add := func(number string) {
		tn := strings.TrimSpace(number)
		if tn == "" || containsTrackingNumber(out, tn) {
			return
		}
		out = append(out, model.TrackingCandidate{TrackingNumber: tn, Link: trackLink})
	}

	for _, re := range []*regexp.Regexp{carrier.USPSInline, carrier.UPSInline, carrier.FedExInline} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, group := range m[1:] {
				if group != "" {
					add(group)
					break
				}
			}
		}
	}

	orderNumbers := map[string]bool{}
	for _, re := range thriftOrderNumberRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			orderNumbers[m[1]] = true
		}
	}
	if len(orderNumbers) == 0 {
		// Label and value often sit in sibling nodes.
		for _, label := range textNodes(root, thriftOrderLabelRe.MatchString) {
			if label.Parent == nil {
				continue
			}
			if m := thriftOrderDigitsRe.FindString(nodeText(label.Parent)); m != "" {
				orderNumbers[m] = true
			}
		}
	}
	for order := range orderNumbers {
		add(order)
	}
	return out
}

func thriftBestTrackLink(root *html.Node) string {
	best := ""
	bestPriority := 99
	bestLength := 0

	for _, a := range anchors(root) {
		href := normalizeHref(attr(a, "href"))
		if href == "" {
			continue
		}
		lowerHref := strings.ToLower(href)
		if !strings.Contains(lowerHref, "narvar.com") && !strings.Contains(lowerHref, "spmailtechno") {
			continue
		}

		anchorText := nodeText(a)
		priority := 3
		if thriftTrackCopyRe.MatchString(anchorText) {
			priority = 1
		} else if strings.Contains(strings.ToLower(anchorText), "track") {
			priority = 2
		}

		if best == "" || priority < bestPriority || (priority == bestPriority && len(href) > bestLength) {
			best = href
			bestPriority = priority
			bestLength = len(href)
			if priority == 1 {
				break
			}
		}
	}
	return best
}
