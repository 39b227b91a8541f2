package dicterr

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	maxExcerptLines = 3
	maxExcerptChars = 200
)

// BuildExcerpt produces the excerpt text for a ParseError: up to three
// lines surrounding pos, each truncated to 200 characters with a "…"
// suffix. If body looks like HTML (starts with '<'), it is converted to
// plain text first so the excerpt surfaces a likely error page rather than
// raw markup.
func BuildExcerpt(body string, pos int) string {
	text := body
	if strings.HasPrefix(strings.TrimSpace(body), "<") {
		text = htmlToText(body)
	}

	lines := strings.Split(text, "\n")
	lineIdx := lineForPos(text, pos)

	start := lineIdx - 1
	if start < 0 {
		start = 0
	}
	end := start + maxExcerptLines
	if end > len(lines) {
		end = len(lines)
	}

	var out []string
	for _, l := range lines[start:end] {
		out = append(out, truncate(l, maxExcerptChars))
	}
	return strings.Join(out, "\n")
}

func lineForPos(text string, pos int) int {
	if pos < 0 || pos > len(text) {
		return 0
	}
	return strings.Count(text[:pos], "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// htmlToText extracts the visible text nodes from an HTML document,
// collapsing whitespace between them. Used as a fallback when a remote
// endpoint returns an HTML error page instead of the expected JSONL body.
func htmlToText(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				b.WriteString(t)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String())
}
