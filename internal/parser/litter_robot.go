package parser

import (
	"regexp"
	"strings"

	"github.com/parcelflow/parcelflow/internal/carrier"
	"github.com/parcelflow/parcelflow/internal/model"
)

var litterRobotLabelRe = regexp.MustCompile(`(?i)tracking\s*number`)

func parseLitterRobot(email model.EmailMessage) []model.TrackingCandidate {
	if email.Body == "" {
		return nil
	}
	root := parseHTML(email.Body)

	var out []model.TrackingCandidate
	addFromText := func(text string) {
		for _, candidate := range litterRobotJoinTokens(text) {
			if candidate == "" || containsTrackingNumber(out, candidate) {
				continue
			}
			out = append(out, model.TrackingCandidate{TrackingNumber: candidate})
		}
	}

	for _, a := range anchors(root) {
		href := attr(a, "href")
		anchorText := nodeText(a)
		searchSpace := strings.TrimSpace(anchorText + " " + href)
		// Avoid pulling unrelated numbers from generic links.
		lowerHref := strings.ToLower(href)
		if !strings.Contains(lowerHref, "track") {
			searchSpace = anchorText
		}
		if searchSpace != "" {
			addFromText(searchSpace)
		}
	}

	// Capture values near explicit "Tracking Number" labels.
	for _, label := range textNodes(root, litterRobotLabelRe.MatchString) {
		container := label.Parent
		if container != nil && container.Parent != nil {
			container = container.Parent
		}
		if container != nil {
			addFromText(nodeText(container))
		}
	}

	if len(out) == 0 {
		addFromText(nodeText(root))
	}
	return out
}

// litterRobotJoinTokens reassembles tracking numbers split across markup by
// joining digit-bearing tokens and validating against the carrier shapes.
func litterRobotJoinTokens(text string) []string {
	var matches []string
	var parts []string

	flush := func() {
		if len(parts) == 0 {
			return
		}
		if candidate := strings.Join(parts, ""); carrier.MatchesKnownShape(candidate) {
			matches = append(matches, candidate)
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
			if carrier.MatchesKnownShape(strings.Join(parts, "") + cleaned) {
				parts = append(parts, cleaned)
				continue
			}
			flush()
		}
	}
	flush()
	return matches
}
