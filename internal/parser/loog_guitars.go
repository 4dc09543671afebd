package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var (
	loogTrackingTextRe = regexp.MustCompile(`(?i)Other tracking number:\s*([A-Z0-9]+)`)
	loogVehoLinkRe     = regexp.MustCompile(`(?i)trackingId[/=]([A-Z0-9]+)`)
	loogBareNumberRe   = regexp.MustCompile(`^[A-Z0-9]{8,}$`)
)

// Loog Guitars ships through Veho, whose tracking IDs do not match any of
// the standard carrier shapes.
func parseLoogGuitars(email model.EmailMessage) []model.TrackingCandidate {
	root := parseHTML(email.Body)

	var out []model.TrackingCandidate
	add := func(tn, link string) {
		normalized := strings.ToUpper(strings.TrimSpace(tn))
		if normalized == "" {
			return
		}
		if link == "" {
			link = carrier.TrackingLink("Veho", normalized)
		}
		for i := range out {
			if out[i].TrackingNumber == normalized {
				if out[i].Link == "" {
					out[i].Link = link
				}
				return
			}
		}
		out = append(out, model.TrackingCandidate{
			TrackingNumber: normalized,
			Carrier:        "Veho",
			Origin:         "loogguitars.com",
			Link:           link,
		})
	}

	for _, a := range anchors(root) {
		href := attr(a, "href")
		if m := loogVehoLinkRe.FindStringSubmatch(href); m != nil {
			add(m[1], strings.TrimSpace(href))
			continue
		}
		text := strings.TrimSpace(nodeText(a))
		if text != "" && loogBareNumberRe.MatchString(text) && a.Parent != nil {
			context := strings.ToLower(nodeText(a.Parent))
			if strings.Contains(context, "other tracking number") {
				add(text, "")
			}
		}
	}

	for _, m := range loogTrackingTextRe.FindAllStringSubmatch(nodeText(root), -1) {
		add(m[1], "")
	}
	return out
}
