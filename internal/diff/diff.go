// Package diff compares two revisions of wiki content.
package diff

import (
	"html/template"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoChanges is returned by Unified for byte-identical content.
const NoChanges = "No changes were made between this two files."

// Unified returns a unified diff between two pieces of content. The second
// argument is treated as the baseline and labeled "Original", the first as
// the new side labeled "Current"; callers pass current-by-convention first
// and older-by-convention second. Lines are joined with single newlines and
// carry no trailing terminator.
func Unified(current, original string) string {
	if current == original {
		return NoChanges
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(current),
		FromFile: "Original",
		ToFile:   "Current",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return ""
	}
	return strings.TrimRight(text, "\n")
}

// HTML renders an inline word-level diff of the two contents, insertions
// wrapped in <ins> and deletions in <del>. The plain spans are escaped, so
// the result is safe to emit as-is.
func HTML(current, original string) template.HTML {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, current, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buff strings.Builder
	for _, d := range diffs {
		text := template.HTMLEscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			buff.WriteString("<ins>")
			buff.WriteString(text)
			buff.WriteString("</ins>")
		case diffmatchpatch.DiffDelete:
			buff.WriteString("<del>")
			buff.WriteString(text)
			buff.WriteString("</del>")
		case diffmatchpatch.DiffEqual:
			buff.WriteString("<span>")
			buff.WriteString(text)
			buff.WriteString("</span>")
		}
	}
	return template.HTML(buff.String())
}
