package normalize

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContainsHTML reports whether s contains at least one known HTML element.
// Angle brackets in plain prose ("cook < 5 min") do not count.
func ContainsHTML(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) != 0 {
				return true
			}
		}
	}
}

// RecipeText converts rich-text submissions to Markdown. Plain text is
// returned trimmed and otherwise unchanged.
func RecipeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !ContainsHTML(s) {
		return s
	}
	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

// PlainText strips markup and collapses whitespace, for search indexing.
func PlainText(s string) string {
	if s == "" || !ContainsHTML(s) {
		return Name(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return Name(s)
	}
	var buf strings.Builder
	extractText(doc, &buf)
	return Name(buf.String())
}

func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.P, atom.Div, atom.Br, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			buf.WriteString(" ")
		}
	}
}
