package feedback

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
)

var (
	boldStar    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnder   = regexp.MustCompile(`__(.*?)__`)
	italicStar  = regexp.MustCompile(`\*(.*?)\*`)
	italicUnder = regexp.MustCompile(`_(.*?)_`)
	fenced      = regexp.MustCompile("(?s)```(.*?)```")
	inlineCode  = regexp.MustCompile("`(.*?)`")
)

// ToHTML converts the small markdown subset models answer with into HTML:
// bold, italic, fenced and inline code, and line breaks. Everything else
// passes through escaped.
func ToHTML(text string) string {
	out := html.EscapeString(text)
	out = boldStar.ReplaceAllString(out, "<strong>$1</strong>")
	out = boldUnder.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicStar.ReplaceAllString(out, "<em>$1</em>")
	out = italicUnder.ReplaceAllString(out, "<em>$1</em>")
	out = fenced.ReplaceAllString(out, "<pre><code>$1</code></pre>")
	out = inlineCode.ReplaceAllString(out, "<code>$1</code>")
	return strings.ReplaceAll(out, "\n", "<br>")
}

// RenderTerminal renders markdown for the terminal at the given width.
// On renderer failure the plain text is returned with the error.
func RenderTerminal(text string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text, err
	}
	out, err := r.Render(text)
	if err != nil {
		return text, err
	}
	return strings.TrimRight(out, "\n"), nil
}
