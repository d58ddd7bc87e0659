package controller

import (
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"wakawaka/internal/auth"
	"wakawaka/internal/diff"
	"wakawaka/internal/preprocess"
	"wakawaka/internal/web/viewmodels"
	"wakawaka/internal/wiki"
	"wakawaka/internal/wikiword"
)

// Page provides the wiki page handlers.
type Page struct {
	Workflow    *wiki.Workflow
	Repo        *wiki.Repository
	AuthService *auth.Service
	Templates   map[string]*template.Template
	Linker      *wikiword.Linker
	Preprocess  preprocess.Func
	IndexSlug   string
	SlugRe      *regexp.Regexp
	Log         zerolog.Logger
	urls        URLs
}

// Register registers the page routes.
func (p *Page) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.index)
	mux.HandleFunc("GET /index/{$}", p.pageList)
	mux.HandleFunc("GET /history/{$}", p.revisionList)
	mux.HandleFunc("GET /page/{slug...}", p.view)
	mux.HandleFunc("GET /edit/{slug...}", p.edit)
	mux.HandleFunc("POST /edit/{slug...}", p.save)
	mux.HandleFunc("GET /history/{slug...}", p.history)
	mux.HandleFunc("GET /changes/{slug...}", p.changes)
}

// caller assembles the workflow's view of the requesting identity.
func (p *Page) caller(r *http.Request) wiki.Caller {
	user := auth.UserFrom(r)
	perms, err := p.AuthService.PermissionsFor(user)
	if err != nil {
		p.Log.Error().Err(err).Msg("error loading permissions")
	}
	return wiki.Caller{User: user, Addr: remoteIP(r), Perms: perms}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// slug extracts and validates the wildcard slug of the request.
func (p *Page) slug(r *http.Request) (string, bool) {
	slug := r.PathValue("slug")
	return slug, p.SlugRe.MatchString(slug)
}

func revParam(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(r.FormValue(key), 10, 64)
	return id
}

func (p *Page) render(w http.ResponseWriter, r *http.Request, name string, data viewmodels.PageData) {
	user := auth.UserFrom(r)
	data.CurrentUser = user
	data.IsLoggedIn = user != nil
	data.IndexSlug = p.IndexSlug
	if data.Messages == nil {
		data.Messages = auth.Flashes(w, r)
	}
	if err := p.Templates[name].ExecuteTemplate(w, "layout.html", data); err != nil {
		p.Log.Error().Err(err).Str("template", name).Msg("error rendering template")
	}
}

// renderContent runs the configured preprocessor and then wikiword-links
// the result.
func (p *Page) renderContent(content string) template.HTML {
	return template.HTML(p.Linker.Replace(p.Preprocess(content)))
}

// fail translates workflow errors into HTTP outcomes.
func (p *Page) fail(w http.ResponseWriter, r *http.Request, err error) {
	var forbidden *wiki.ForbiddenError
	switch {
	case errors.Is(err, wiki.ErrNotFound):
		http.NotFound(w, r)
	case errors.As(err, &forbidden):
		http.Error(w, forbidden.Reason, http.StatusForbidden)
	case errors.Is(err, wiki.ErrBadRequest):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		p.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// index redirects to the default wiki index page.
func (p *Page) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, p.urls.PageURL(p.IndexSlug), http.StatusFound)
}

func (p *Page) view(w http.ResponseWriter, r *http.Request) {
	slug, ok := p.slug(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	pv, err := p.Workflow.View(slug, revParam(r, "rev"), p.caller(r))
	if err != nil {
		// An authenticated caller hitting a missing page is offered
		// the creation form instead.
		if errors.Is(err, wiki.ErrMissingPage) {
			http.Redirect(w, r, p.urls.EditURL(slug), http.StatusFound)
			return
		}
		p.fail(w, r, err)
		return
	}

	p.render(w, r, "view.html", viewmodels.PageData{
		Page:    pv.Page,
		Rev:     &pv.Revision,
		Content: p.renderContent(pv.Revision.Content),
	})
}

func (p *Page) edit(w http.ResponseWriter, r *http.Request) {
	slug, ok := p.slug(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	state, err := p.Workflow.Edit(slug, revParam(r, "rev"), p.caller(r))
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, "edit.html", viewmodels.PageData{Page: state.Page, Edit: state})
}

func (p *Page) save(w http.ResponseWriter, r *http.Request) {
	slug, ok := p.slug(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	caller := p.caller(r)
	revID := revParam(r, "rev")

	// The delete path takes priority over a content save.
	if intent := r.PostFormValue("delete"); intent != "" {
		p.delete(w, r, slug, revID, wiki.DeleteIntent(intent), caller)
		return
	}

	content := r.PostFormValue("content")
	message := r.PostFormValue("message")

	rev, err := p.Workflow.Save(r.Context(), slug, revID, content, message, caller)
	if err != nil {
		var invalid *wiki.ValidationError
		if errors.As(err, &invalid) {
			// Re-display the form with the offending field annotated.
			state, stateErr := p.Workflow.Edit(slug, revID, caller)
			if stateErr != nil {
				p.fail(w, r, stateErr)
				return
			}
			state.Content = content
			state.Message = message
			p.render(w, r, "edit.html", viewmodels.PageData{
				Page:      state.Page,
				Edit:      state,
				FormError: invalid.Reason,
			})
			return
		}
		p.fail(w, r, err)
		return
	}

	auth.Flash(w, r, fmt.Sprintf("Your changes to %s were saved", slug))
	p.Log.Debug().Str("slug", slug).Int64("revision", rev.ID).Msg("save handled")
	http.Redirect(w, r, p.urls.PageURL(slug), http.StatusSeeOther)
}

func (p *Page) delete(w http.ResponseWriter, r *http.Request, slug string, revID int64, intent wiki.DeleteIntent, caller wiki.Caller) {
	state, err := p.Workflow.Edit(slug, revID, caller)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	var rev *wiki.RevisionView
	if state.Revision != nil {
		rev = state.Revision
	}

	outcome := wiki.DeletedNothing
	if state.ShowDelete && rev != nil {
		outcome, err = p.Workflow.Delete(r.Context(), intent, state.Page, rev.Revision, caller)
		if err != nil {
			p.fail(w, r, err)
			return
		}
	}

	switch outcome {
	case wiki.DeletedPage:
		if intent == wiki.DeleteRevisionIntent {
			auth.Flash(w, r, fmt.Sprintf("The page %s was deleted because you deleted the only revision", slug))
		} else {
			auth.Flash(w, r, fmt.Sprintf("The page %s was deleted", slug))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case wiki.DeletedRevision:
		auth.Flash(w, r, fmt.Sprintf("The revision %d of %s was deleted", rev.ID, slug))
		http.Redirect(w, r, p.urls.PageURL(slug), http.StatusSeeOther)
	default:
		// Silent no-op: back to the edit view unchanged.
		http.Redirect(w, r, p.urls.EditURL(slug), http.StatusSeeOther)
	}
}

// history lists all revisions of one page, newest first.
func (p *Page) history(w http.ResponseWriter, r *http.Request) {
	slug, ok := p.slug(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	page, err := p.Repo.GetPage(slug)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	revisions, err := p.Repo.ListRevisions(page.ID)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, "history.html", viewmodels.PageData{Page: page, Revisions: revisions})
}

func (p *Page) changes(w http.ResponseWriter, r *http.Request) {
	slug, ok := p.slug(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	page, err := p.Repo.GetPage(slug)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	revA, revB, err := p.Workflow.Changes(revParam(r, "a"), revParam(r, "b"))
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, "changes.html", viewmodels.PageData{
		Page:     page,
		Diff:     diff.Unified(revA.Content, revB.Content),
		DiffHTML: diff.HTML(revA.Content, revB.Content),
		RevA:     revA,
		RevB:     revB,
	})
}

// pageList displays all pages, ordered by slug.
func (p *Page) pageList(w http.ResponseWriter, r *http.Request) {
	pages, err := p.Repo.ListPages()
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.render(w, r, "page_list.html", viewmodels.PageData{Pages: pages})
}

// revisionList displays all recent revisions across every page.
func (p *Page) revisionList(w http.ResponseWriter, r *http.Request) {
	revisions, err := p.Repo.ListRevisions(0)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.render(w, r, "revision_list.html", viewmodels.PageData{Revisions: revisions})
}
