package content

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
	)
	notePolicy = newNotePolicy()
)

func newNotePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// RenderMarkdown converts note copy to sanitised HTML. Raw HTML in the source is escaped.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(strings.TrimSpace(src)), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(notePolicy.Sanitize(buf.String())), nil
}
