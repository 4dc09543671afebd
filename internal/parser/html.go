package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// parseHTML parses an email body into an HTML tree. The tokenizer is
// forgiving, so malformed retailer markup still yields a usable tree; a
// nil return only happens on reader failure, which callers treat as an
// empty document.
func parseHTML(body string) *html.Node {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}
	return root
}

// elements returns all element nodes with the given tag, in document order.
func elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func anchors(root *html.Node) []*html.Node {
	return elements(root, "a")
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText returns the text content of a node with runs of whitespace
// collapsed to single spaces.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	if n == nil {
		return ""
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// directAnchor returns the first anchor that is a direct child of n.
func directAnchor(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			return c
		}
	}
	return nil
}

// textNodes yields every text node under root whose data matches the
// predicate, together with its parent element.
func textNodes(root *html.Node, match func(string) bool) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && match(n.Data) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
