package viewmodels

import (
	"html/template"

	"wakawaka/internal/models"
	"wakawaka/internal/wiki"
)

// PageData is a unified struct to hold all possible data for any view.
type PageData struct {
	Page      *models.Page
	Rev       *wiki.RevisionView
	Content   template.HTML
	Revisions []models.Revision
	Pages     []models.Page

	// Edit form state.
	Edit      *wiki.EditState
	FormError string

	// Changes view.
	Diff     string
	DiffHTML template.HTML
	RevA     *models.Revision
	RevB     *models.Revision

	IndexSlug   string
	Messages    []string
	LoginError  string
	CurrentUser *models.User
	IsLoggedIn  bool
}
