package wiki

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wakawaka/internal/models"
)

// Repository provides access to the page and revision storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new page/revision repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

const revisionColumns = `r.id, r.page_id, r.content, r.message, r.creator_id,
	COALESCE(u.display_name, ''), r.creator_ip, r.created, r.modified`

func scanRevision(row interface{ Scan(...any) error }) (models.Revision, error) {
	var rev models.Revision
	err := row.Scan(&rev.ID, &rev.PageID, &rev.Content, &rev.Message,
		&rev.CreatorID, &rev.Creator, &rev.CreatorIP, &rev.Created, &rev.Modified)
	return rev, err
}

// GetPage finds a page by its slug.
func (r *Repository) GetPage(slug string) (*models.Page, error) {
	var page models.Page
	err := r.DB.QueryRow("SELECT id, slug, created, modified FROM pages WHERE slug = ?", slug).
		Scan(&page.ID, &page.Slug, &page.Created, &page.Modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading page %q: %w", slug, err)
	}
	return &page, nil
}

// CurrentRevision resolves the page's current revision: the one with the
// latest modified timestamp, ties broken by the highest id.
func (r *Repository) CurrentRevision(page *models.Page) (*models.Revision, error) {
	row := r.DB.QueryRow(`SELECT `+revisionColumns+`
		FROM revisions r LEFT JOIN users u ON u.id = r.creator_id
		WHERE r.page_id = ? ORDER BY r.modified DESC, r.id DESC LIMIT 1`, page.ID)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %q (id %d): %w", page.Slug, page.ID, ErrNoRevisions)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading current revision of %q: %w", page.Slug, err)
	}
	return &rev, nil
}

// GetRevision finds a revision by its store-wide id.
func (r *Repository) GetRevision(id int64) (*models.Revision, error) {
	row := r.DB.QueryRow(`SELECT `+revisionColumns+`
		FROM revisions r LEFT JOIN users u ON u.id = r.creator_id
		WHERE r.id = ?`, id)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading revision %d: %w", id, err)
	}
	return &rev, nil
}

// CountRevisions returns the number of revisions the page owns.
func (r *Repository) CountRevisions(page *models.Page) (int, error) {
	var n int
	err := r.DB.QueryRow("SELECT COUNT(*) FROM revisions WHERE page_id = ?", page.ID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting revisions of %q: %w", page.Slug, err)
	}
	return n, nil
}

// CreateRevision appends a revision to the page in a single transaction.
// If the page is an unsaved placeholder it is persisted first; this is the
// sole page-creation path. The page's modified stamp is always updated.
func (r *Repository) CreateRevision(ctx context.Context, page *models.Page, content, message string, creatorID *int64, creatorIP *string) (*models.Revision, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if !page.Saved() {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO pages (slug, created, modified) VALUES (?, ?, ?)",
			page.Slug, now, now)
		if err != nil {
			return nil, fmt.Errorf("error creating page %q: %w", page.Slug, err)
		}
		pageID, _ := res.LastInsertId()
		page.ID = pageID
		page.Created = now
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO revisions
		(page_id, content, message, creator_id, creator_ip, created, modified)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		page.ID, content, message, creatorID, creatorIP, now, now)
	if err != nil {
		return nil, fmt.Errorf("error creating revision for %q: %w", page.Slug, err)
	}
	revID, _ := res.LastInsertId()

	_, err = tx.ExecContext(ctx, "UPDATE pages SET modified = ? WHERE id = ?", now, page.ID)
	if err != nil {
		return nil, fmt.Errorf("error stamping page %q: %w", page.Slug, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	page.Modified = now
	return &models.Revision{
		ID:        revID,
		PageID:    page.ID,
		Content:   content,
		Message:   message,
		CreatorID: creatorID,
		CreatorIP: creatorIP,
		Created:   now,
		Modified:  now,
	}, nil
}

// DeleteRevision removes a single revision row. Whether removing the page's
// last revision should cascade to the page is the workflow's decision, not
// the store's.
func (r *Repository) DeleteRevision(ctx context.Context, rev *models.Revision) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM revisions WHERE id = ?", rev.ID); err != nil {
		return fmt.Errorf("error deleting revision %d: %w", rev.ID, err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE pages SET modified = ? WHERE id = ?",
		time.Now().UTC(), rev.PageID); err != nil {
		return fmt.Errorf("error stamping page %d: %w", rev.PageID, err)
	}

	return tx.Commit()
}

// DeletePage removes the page and all of its revisions in one transaction.
func (r *Repository) DeletePage(ctx context.Context, page *models.Page) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM revisions WHERE page_id = ?", page.ID); err != nil {
		return fmt.Errorf("error deleting revisions of %q: %w", page.Slug, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", page.ID); err != nil {
		return fmt.Errorf("error deleting page %q: %w", page.Slug, err)
	}

	return tx.Commit()
}

// ListPages lists all pages ordered by slug.
func (r *Repository) ListPages() ([]models.Page, error) {
	rows, err := r.DB.Query("SELECT id, slug, created, modified FROM pages ORDER BY slug ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var page models.Page
		if err := rows.Scan(&page.ID, &page.Slug, &page.Created, &page.Modified); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// ListRevisions lists revisions newest-first by modified stamp. A pageID of
// zero lists revisions across all pages.
func (r *Repository) ListRevisions(pageID int64) ([]models.Revision, error) {
	query := `SELECT ` + revisionColumns + `
		FROM revisions r LEFT JOIN users u ON u.id = r.creator_id`
	var args []any
	if pageID != 0 {
		query += " WHERE r.page_id = ?"
		args = append(args, pageID)
	}
	query += " ORDER BY r.modified DESC, r.id DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// PageExists reports whether a page with the exact slug exists and returns
// the canonical stored slug. Used by the wikiword linker.
func (r *Repository) PageExists(slug string) (string, bool) {
	var canonical string
	err := r.DB.QueryRow("SELECT slug FROM pages WHERE slug = ?", slug).Scan(&canonical)
	if err != nil {
		return "", false
	}
	return canonical, true
}
