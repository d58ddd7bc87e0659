package wiki

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wakawaka/internal/models"
)

// The fixed capability set consulted by the workflow.
const (
	PermAddPage        = "add_wikipage"
	PermAddRevision    = "add_revision"
	PermChangePage     = "change_wikipage"
	PermChangeRevision = "change_revision"
	PermDeletePage     = "delete_wikipage"
	PermDeleteRevision = "delete_revision"
)

// PermissionChecker reports whether the caller holds a named capability.
type PermissionChecker interface {
	Has(name string) bool
}

// Caller describes the identity submitting a request. A nil User means the
// caller is anonymous.
type Caller struct {
	User  *models.User
	Addr  string
	Perms PermissionChecker
}

// Authenticated reports whether the caller is logged in.
func (c Caller) Authenticated() bool {
	return c.User != nil
}

func (c Caller) has(names ...string) bool {
	if c.Perms == nil {
		return false
	}
	for _, name := range names {
		if !c.Perms.Has(name) {
			return false
		}
	}
	return true
}

// RevisionView wraps a revision together with the display-only flag telling
// whether it is the page's current one. The flag is never persisted.
type RevisionView struct {
	*models.Revision
	IsCurrent bool
}

// PageView is the result of resolving a page for display.
type PageView struct {
	Page     *models.Page
	Revision RevisionView
}

// EditState is everything the edit form needs: the resolved (or placeholder)
// page, the working revision, the pre-filled fields and which deletion
// choices the caller may be offered.
type EditState struct {
	Page          *models.Page
	Revision      *RevisionView // nil for a page that doesn't exist yet
	Content       string
	Message       string
	IsNew         bool
	ShowDelete    bool
	CanDeletePage bool
}

// DeleteIntent is the caller's submitted deletion choice.
type DeleteIntent string

const (
	DeleteRevisionIntent DeleteIntent = "rev"
	DeletePageIntent     DeleteIntent = "page"
)

// DeleteOutcome reports what, if anything, a deletion request removed.
type DeleteOutcome int

const (
	// DeletedNothing is the silent no-op: unknown intent or a missing
	// capability. The caller is returned to the edit view unchanged.
	DeletedNothing DeleteOutcome = iota
	// DeletedRevision means a single revision was removed; the page stays.
	DeletedRevision
	// DeletedPage means the page and all its revisions were removed.
	DeletedPage
)

// Workflow orchestrates the store and the permission collaborator to
// implement viewing, editing, reverting, saving and deleting wiki pages.
// Each invocation is a stateless decision procedure; state lives in the
// store only.
type Workflow struct {
	Repo *Repository
	Log  zerolog.Logger
}

// NewWorkflow creates a workflow over the given repository.
func NewWorkflow(repo *Repository, log zerolog.Logger) *Workflow {
	return &Workflow{Repo: repo, Log: log}
}

// View resolves a page for display. With a non-zero revID that revision is
// shown instead of the current one, flagged not-current when it differs.
// A missing page yields ErrMissingPage for authenticated callers, so they
// can be redirected to the creation form, and ErrNotFound for anonymous
// callers, which must never see a permission prompt for a missing slug.
func (w *Workflow) View(slug string, revID int64, caller Caller) (*PageView, error) {
	page, err := w.Repo.GetPage(slug)
	if errors.Is(err, ErrNotFound) {
		if caller.Authenticated() {
			return nil, ErrMissingPage
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	current, err := w.Repo.CurrentRevision(page)
	if err != nil {
		if errors.Is(err, ErrNoRevisions) {
			w.Log.Error().Str("slug", slug).Msg("integrity: page without revisions")
		}
		return nil, err
	}

	view := RevisionView{Revision: current, IsCurrent: true}
	if revID != 0 {
		specific, err := w.Repo.GetRevision(revID)
		if err != nil {
			return nil, err
		}
		view = RevisionView{Revision: specific, IsCurrent: specific.ID == current.ID}
	}

	return &PageView{Page: page, Revision: view}, nil
}

// Edit assembles the edit form for a slug, optionally pre-filled from an
// older revision (a revert). Nothing is persisted here; a placeholder page
// is synthesized in memory when the slug is unknown.
func (w *Workflow) Edit(slug string, revID int64, caller Caller) (*EditState, error) {
	state, err := w.resolveEdit(slug, revID, caller)
	if err != nil {
		return nil, err
	}

	state.ShowDelete = caller.has(PermDeletePage) || caller.has(PermDeleteRevision)
	state.CanDeletePage = caller.has(PermDeletePage, PermDeleteRevision)
	return state, nil
}

func (w *Workflow) resolveEdit(slug string, revID int64, caller Caller) (*EditState, error) {
	page, err := w.Repo.GetPage(slug)
	if errors.Is(err, ErrNotFound) {
		// Anonymous callers never see a creation prompt for a missing
		// slug; that would leak which pages exist behind a login.
		if !caller.Authenticated() {
			return nil, ErrNotFound
		}
		// The page does not exist: offer a creation form over an
		// in-memory placeholder. It is not saved here.
		if !caller.has(PermAddPage, PermAddRevision) {
			return nil, &ForbiddenError{Reason: "You don't have permission to add wiki pages."}
		}
		return &EditState{
			Page:    &models.Page{Slug: slug},
			IsNew:   true,
			Content: fmt.Sprintf("Describe your new page %s here...", slug),
			Message: "Initial revision",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if !caller.has(PermChangePage, PermChangeRevision) {
		return nil, &ForbiddenError{Reason: "You don't have permission to edit pages."}
	}

	current, err := w.Repo.CurrentRevision(page)
	if err != nil {
		return nil, err
	}

	state := &EditState{
		Page:     page,
		Revision: &RevisionView{Revision: current, IsCurrent: true},
		Content:  current.Content,
	}

	if revID != 0 && revID != current.ID {
		// Revert pre-fill: load the requested revision into the form.
		// No revision is created until the caller submits.
		specific, err := w.Repo.GetRevision(revID)
		if err != nil {
			return nil, err
		}
		state.Revision = &RevisionView{Revision: specific, IsCurrent: false}
		state.Content = specific.Content
		state.Message = fmt.Sprintf(`Reverted to "%s"`, specific.Message)
	}

	return state, nil
}

// Save handles the content-save path of a form submission. The no-op guard
// rejects content identical to the form's initial content, unless the
// submission reverts to a specific older revision. On success the page is
// resolved or created and a new revision appended.
func (w *Workflow) Save(ctx context.Context, slug string, revID int64, content, message string, caller Caller) (*models.Revision, error) {
	state, err := w.resolveEdit(slug, revID, caller)
	if err != nil {
		return nil, err
	}

	if content == "" {
		return nil, &ValidationError{Field: "content", Reason: "This field is required."}
	}
	if revID == 0 && content == state.Content {
		return nil, &ValidationError{Field: "content", Reason: "You have made no changes!"}
	}

	// Re-resolve by slug so a concurrent save never yields two pages for
	// one slug; both racers simply append sequential revisions.
	page, err := w.Repo.GetPage(slug)
	if errors.Is(err, ErrNotFound) {
		page = &models.Page{Slug: slug}
	} else if err != nil {
		return nil, err
	}

	var creatorID *int64
	if caller.User != nil {
		creatorID = &caller.User.ID
	}
	var creatorIP *string
	if caller.Addr != "" {
		creatorIP = &caller.Addr
	}

	rev, err := w.Repo.CreateRevision(ctx, page, content, message, creatorID, creatorIP)
	if err != nil {
		return nil, err
	}

	w.Log.Info().Str("slug", slug).Int64("revision", rev.ID).Msg("revision saved")
	return rev, nil
}

// Delete dispatches the deletion decision for a submitted intent. Deleting
// a page's last revision removes the whole page, but only when the caller
// holds delete_wikipage on top of delete_revision; with delete_revision
// alone the request is refused as a no-op rather than silently cascading.
// Unknown intents and missing capabilities are silent no-ops too.
func (w *Workflow) Delete(ctx context.Context, intent DeleteIntent, page *models.Page, rev *models.Revision, caller Caller) (DeleteOutcome, error) {
	switch intent {
	case DeleteRevisionIntent:
		if !caller.has(PermDeleteRevision) || page == nil || rev == nil {
			return DeletedNothing, nil
		}
		count, err := w.Repo.CountRevisions(page)
		if err != nil {
			return DeletedNothing, err
		}
		if count <= 1 {
			if !caller.has(PermDeletePage) {
				return DeletedNothing, nil
			}
			if err := w.Repo.DeletePage(ctx, page); err != nil {
				return DeletedNothing, err
			}
			w.Log.Info().Str("slug", page.Slug).Msg("page deleted with its only revision")
			return DeletedPage, nil
		}
		if err := w.Repo.DeleteRevision(ctx, rev); err != nil {
			return DeletedNothing, err
		}
		w.Log.Info().Str("slug", page.Slug).Int64("revision", rev.ID).Msg("revision deleted")
		return DeletedRevision, nil

	case DeletePageIntent:
		if !caller.has(PermDeletePage, PermDeleteRevision) || page == nil {
			return DeletedNothing, nil
		}
		if err := w.Repo.DeletePage(ctx, page); err != nil {
			return DeletedNothing, err
		}
		w.Log.Info().Str("slug", page.Slug).Msg("page deleted")
		return DeletedPage, nil
	}

	return DeletedNothing, nil
}

// Changes diffs two revisions for the changes view. Both ids must be
// supplied; the revisions need not belong to the same page.
func (w *Workflow) Changes(revA, revB int64) (*models.Revision, *models.Revision, error) {
	if revA == 0 || revB == 0 {
		return nil, nil, ErrBadRequest
	}
	a, err := w.Repo.GetRevision(revA)
	if err != nil {
		return nil, nil, err
	}
	b, err := w.Repo.GetRevision(revB)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
