package report

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Elements dropped from page-source attachments. Scripts and styles bloat
// the attachment without helping anyone read the failure.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
}

// cleanPageSource re-renders the HTML without script/style noise while
// preserving document structure and attributes.
func cleanPageSource(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	prune(doc)

	var builder strings.Builder
	if err := html.Render(&builder, doc); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return builder.String(), nil
}

// prune removes skipped elements and comments in place.
func prune(n *html.Node) {
	var next *html.Node
	for child := n.FirstChild; child != nil; child = next {
		next = child.NextSibling
		switch {
		case child.Type == html.CommentNode:
			n.RemoveChild(child)
		case child.Type == html.ElementNode && skippedElements[strings.ToLower(child.Data)]:
			n.RemoveChild(child)
		default:
			prune(child)
		}
	}
}
