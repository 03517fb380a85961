package parse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strips active content from an upstream page: script and iframe
// elements, inline event handlers (on* attributes) and javascript:
// URIs. Everything else, including class and data attributes the
// departures parser relies on, is kept.
func SanitizeHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, iframe").Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			kept := node.Attr[:0]
			for _, attr := range node.Attr {
				if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
					continue
				}
				if isJavascriptURI(attr.Val) {
					continue
				}
				kept = append(kept, attr)
			}
			node.Attr = kept
		}
	})

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return out, nil
}

func isJavascriptURI(value string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "javascript:")
}
