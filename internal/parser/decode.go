package parser

import (
	"html"
	"io"
	"mime/quotedprintable"
	"regexp"
	"strings"
)

// Encoding quirks are sender-specific, so these helpers are shared by the
// parsers that need them rather than applied globally.

var whitespaceRe = regexp.MustCompile(`\s+`)

// looksQuotedPrintable reports whether a body still carries quoted-printable
// soft line breaks.
func looksQuotedPrintable(s string) bool {
	return strings.Contains(s, "=\r") || strings.Contains(s, "=\n")
}

// decodeQuotedPrintable decodes a quoted-printable body, best effort. On a
// decode error the soft breaks and =3D escapes are stripped manually so a
// partially malformed body still parses.
func decodeQuotedPrintable(s string) string {
	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(s)))
	if err == nil && len(decoded) > 0 {
		return string(decoded)
	}
	return stripSoftBreaks(s)
}

// stripSoftBreaks removes quoted-printable soft line breaks and unescapes
// the =3D equals sign without a full decode pass.
func stripSoftBreaks(s string) string {
	s = strings.ReplaceAll(s, "=\r\n", "")
	s = strings.ReplaceAll(s, "=\n", "")
	return strings.ReplaceAll(s, "=3D", "=")
}

// normalizeHref cleans quoted-printable artifacts out of an href attribute:
// the 3D"..." wrapper some encoders leave behind, soft breaks and =3D.
func normalizeHref(href string) string {
	h := strings.TrimSpace(href)
	if strings.HasPrefix(h, `3D"`) && strings.HasSuffix(h, `"`) {
		h = h[3 : len(h)-1]
	}
	h = strings.ReplaceAll(h, "=\r\n", "")
	h = strings.ReplaceAll(h, "=\n", "")
	return strings.ReplaceAll(h, "=3D", "=")
}

// cleanLink unescapes HTML entities and strips all whitespace from a URL.
func cleanLink(raw string) string {
	link := html.UnescapeString(strings.TrimSpace(raw))
	link = strings.ReplaceAll(link, "=\n", "")
	link = strings.ReplaceAll(link, "=3D", "=")
	return whitespaceRe.ReplaceAllString(link, "")
}
