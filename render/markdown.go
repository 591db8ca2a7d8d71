// Package render turns note markdown into HTML that is safe to embed.
package render

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"strings"
	"unicode/utf8"

	"learnbase/logger"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// allowedTags is everything the sanitizer keeps. Anything else, script and
// style included, is stripped after markdown expansion.
var allowedTags = []string{
	"p", "br", "hr", "div", "span", "blockquote", "pre", "code",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"strong", "b", "em", "i", "u", "s", "del", "ins", "mark", "sub", "sup", "small", "abbr", "kbd",
	"ul", "ol", "li", "dl", "dt", "dd",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption", "colgroup", "col",
	"a", "img",
}

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Raw HTML is passed through on purpose; the policy below decides what survives.
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)
	policy    = newPolicy()
	textStrip = bluemonday.StrictPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("align", "colspan", "rowspan").OnElements("th", "td")
	p.AllowAttrs("start").OnElements("ol")
	p.AllowStandardURLs()
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	return p
}

// Markdown expands src and sanitizes the result.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		logger.Error("render.Markdown: Error converting markdown: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// Summary renders src to plain text and cuts it to at most limit runes.
func Summary(src string, limit int) string {
	text := textStrip.Sanitize(string(Markdown(src)))
	text = strings.Join(strings.Fields(stdhtml.UnescapeString(text)), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
