package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates
var templateFiles embed.FS

var viewTemplates = []string{
	"view.html",
	"edit.html",
	"history.html",
	"changes.html",
	"page_list.html",
	"revision_list.html",
	"login.html",
}

// parseTemplates builds one isolated template set per view, each sharing
// the layout.
func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	for _, name := range viewTemplates {
		t, err := template.New(name).Funcs(sprig.FuncMap()).ParseFS(templateFiles,
			"templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}
