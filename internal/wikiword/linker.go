// Package wikiword rewrites WikiWord tokens in page content into hyperlinks.
package wikiword

import (
	"fmt"
	"html/template"
	"regexp"
)

// DefaultPattern matches slugs of two or more CamelCase segments, optionally
// chained with slashes: CarrotCake, CarrotCake/WithButter. A single segment
// like Carrotcake does not match. Matching is case-sensitive ASCII.
const DefaultPattern = `\b((?:[A-Z]+[a-z]+){2,}(?:/(?:[A-Z]+[a-z]+){2,})*)\b`

// PageResolver reports whether a page with the exact slug exists, returning
// the canonical stored slug.
type PageResolver interface {
	PageExists(slug string) (string, bool)
}

// URLBuilder maps logical targets to externally visible addresses. The
// linker never constructs raw paths itself.
type URLBuilder interface {
	PageURL(slug string) string
	EditURL(slug string) string
}

// Linker finds whole-word WikiWord matches in a block of text and replaces
// each with an anchor tag: a page link when the slug exists, otherwise a
// link to the creation form marked with the "doesnotexist" class so callers
// can style it differently. All other text passes through unchanged.
type Linker struct {
	pattern *regexp.Regexp
	pages   PageResolver
	urls    URLBuilder
}

// New compiles the given slug pattern (empty means DefaultPattern) into a
// linker over the given resolver and URL builder.
func New(pattern string, pages PageResolver, urls URLBuilder) (*Linker, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid slug pattern %q: %w", pattern, err)
	}
	return &Linker{pattern: re, pages: pages, urls: urls}, nil
}

// Replace rewrites every WikiWord in text into an anchor tag. The
// surrounding text is emitted as-is; escaping it is the caller's concern.
func (l *Linker) Replace(text string) string {
	return l.pattern.ReplaceAllStringFunc(text, func(match string) string {
		if canonical, ok := l.pages.PageExists(match); ok {
			return fmt.Sprintf(`<a href="%s">%s</a>`,
				template.HTMLEscapeString(l.urls.PageURL(canonical)), canonical)
		}
		return fmt.Sprintf(`<a class="doesnotexist" href="%s">%s</a>`,
			template.HTMLEscapeString(l.urls.EditURL(match)), match)
	})
}
