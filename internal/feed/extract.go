package feed

import (
	"strings"

	"golang.org/x/net/html"
)

// NoContent is the sentinel returned when an entry has no usable text.
const NoContent = "Sem conteúdo disponível."

// ExtractText strips markup from entry HTML, joining text fragments
// with newlines and trimming each one, then truncates to maxLength
// runes. Truncation is not word-boundary aware; a mid-word cut is
// accepted behavior. Empty input yields the NoContent sentinel.
func ExtractText(markup string, maxLength int) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse recovers from almost anything; treat a real
		// failure like empty input.
		return NoContent
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(parts, "\n")
	if text == "" {
		return NoContent
	}

	if runes := []rune(text); maxLength > 0 && len(runes) > maxLength {
		return string(runes[:maxLength])
	}
	return text
}
