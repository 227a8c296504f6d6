package notecontent

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// Rendered is the display model of a stored note.
type Rendered struct {
	Color      string `json:"color"`
	Style      string `json:"style"`
	HTML       string `json:"html"`
	Summary    string `json:"summary,omitempty"`
	HasSummary bool   `json:"has_summary"`
}

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Render decodes the side channels of content and turns the remaining body
// into sanitized HTML. Editor output is HTML, older notes are markdown; the
// markdown parser passes inline HTML through so both render.
func Render(content string) Rendered {
	meta, body := Decode(content)
	main, summary, ok := SplitSummary(body)

	return Rendered{
		Color:      meta.Color,
		Style:      meta.Style,
		HTML:       renderMarkdown(main),
		Summary:    strings.TrimSpace(summary),
		HasSummary: ok,
	}
}

// PlainText strips markup from content, leaving the text a reader sees.
func PlainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(content)))
}

func renderMarkdown(source string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(source))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	unsafe := markdown.Render(doc, renderer)

	return string(ugcPolicy.SanitizeBytes(unsafe))
}
