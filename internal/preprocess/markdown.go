package preprocess

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Markdown renders the content as CommonMark.
func Markdown(content string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return Plain(content)
	}
	return buf.String()
}
