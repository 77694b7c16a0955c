package utils

import (
	stdhtml "html"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// StripTags removes all markup and returns plain text, used for fields like comments.
// The policy escapes what it keeps, so entities are decoded back.
func StripTags(input string) string {
	return stdhtml.UnescapeString(strictPolicy.Sanitize(input))
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(md string) string {
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return Sanitize(string(markdown.ToHTML([]byte(md), nil, renderer)))
}
