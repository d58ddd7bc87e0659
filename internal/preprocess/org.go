package preprocess

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/niklasfasching/go-org/org"
)

// Org renders the content as org-mode with chroma-highlighted code blocks.
func Org(content string) string {
	out, err := org.New().Parse(strings.NewReader(content), "").Write(newHTMLWriterWithChroma())
	if err != nil {
		return Plain(content)
	}
	return out
}

func newHTMLWriterWithChroma() *org.HTMLWriter {
	w := org.NewHTMLWriter()
	w.HighlightCodeBlock = func(source, lang string, inline bool, params map[string]string) string {
		var buf bytes.Buffer
		lexer := lexers.Get(lang)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		iterator, err := lexer.Tokenise(nil, source)
		if err != nil {
			return source
		}
		formatter := html.New(html.WithClasses(true))
		if err := formatter.Format(&buf, styles.Get("friendly"), iterator); err != nil {
			return source
		}
		return buf.String()
	}
	return w
}
