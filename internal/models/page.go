package models

import "time"

// Page represents a single wiki page, identified by its WikiWord slug.
type Page struct {
	ID       int64
	Slug     string
	Created  time.Time
	Modified time.Time
}

// Saved reports whether the page has been persisted yet. The edit workflow
// builds unsaved placeholder pages for slugs that don't exist.
func (p *Page) Saved() bool {
	return p.ID != 0
}
