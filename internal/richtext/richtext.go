// Package richtext turns product descriptions written in markdown into sanitized HTML.
package richtext

import (
	"bytes"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	once     sync.Once
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
)

func setup() {
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		// Raw HTML passes through goldmark; the policy below is the only filter.
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)
	policy = newDescriptionPolicy()
}

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Render converts markdown (inline HTML allowed) into sanitized HTML. Empty input
// yields an empty string.
func Render(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	once.Do(setup)

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize("<p>" + source + "</p>")
	}
	return strings.TrimSpace(policy.Sanitize(buf.String()))
}

// Plain strips all markup and returns text suitable for attributes and JSON summaries.
func Plain(source string) string {
	rendered := Render(source)
	if rendered == "" {
		return ""
	}
	text := bluemonday.StrictPolicy().Sanitize(rendered)
	return strings.Join(strings.Fields(text), " ")
}
