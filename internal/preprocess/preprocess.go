// Package preprocess turns raw stored page content into displayable markup.
package preprocess

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

// Func transforms raw content into markup. Implementations are pluggable
// through configuration; the zero choice is Plain.
type Func func(string) string

var urlPattern = regexp.MustCompile(`\bhttps?://[^\s<]+`)

// Plain escapes the content, auto-links bare URLs, wraps blank-line
// separated blocks in paragraph tags and turns remaining single newlines
// into <br> tags.
func Plain(content string) string {
	escaped := template.HTMLEscapeString(content)
	linked := urlPattern.ReplaceAllStringFunc(escaped, func(url string) string {
		return fmt.Sprintf(`<a href="%s" rel="nofollow">%s</a>`, url, url)
	})

	var paragraphs []string
	for _, block := range strings.Split(strings.ReplaceAll(linked, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		paragraphs = append(paragraphs, "<p>"+strings.ReplaceAll(block, "\n", "<br>")+"</p>")
	}
	return strings.Join(paragraphs, "\n\n")
}

// ByName resolves a preprocessor by its configured name.
func ByName(name string) (Func, error) {
	switch name {
	case "", "plain":
		return Plain, nil
	case "markdown":
		return Markdown, nil
	case "org":
		return Org, nil
	}
	return nil, fmt.Errorf("unknown preprocessor %q", name)
}
