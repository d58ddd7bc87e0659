package wiki_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakawaka/internal/database"
	"wakawaka/internal/models"
	"wakawaka/internal/wiki"
)

func newTestRepo(t *testing.T) *wiki.Repository {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	// A pooled second connection would see a different in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return wiki.NewRepository(db)
}

func TestGetPageNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetPage("NoSuchPage")
	assert.ErrorIs(t, err, wiki.ErrNotFound)
}

func TestCreateRevisionCreatesPage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page := &models.Page{Slug: "WikiIndex"}
	rev, err := repo.CreateRevision(ctx, page, "hello", "Initial revision", nil, nil)
	require.NoError(t, err)

	assert.True(t, page.Saved())
	assert.Equal(t, page.ID, rev.PageID)

	loaded, err := repo.GetPage("WikiIndex")
	require.NoError(t, err)
	assert.Equal(t, page.ID, loaded.ID)

	current, err := repo.CurrentRevision(loaded)
	require.NoError(t, err)
	assert.Equal(t, rev.ID, current.ID)
	assert.Equal(t, "hello", current.Content)
}

func TestAppendOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page := &models.Page{Slug: "CarrotCake"}
	first, err := repo.CreateRevision(ctx, page, "one", "", nil, nil)
	require.NoError(t, err)

	for i, content := range []string{"two", "three", "four"} {
		_, err := repo.CreateRevision(ctx, page, content, "", nil, nil)
		require.NoError(t, err)

		count, err := repo.CountRevisions(page)
		require.NoError(t, err)
		assert.Equal(t, i+2, count)
	}

	// No prior revision's content ever changes.
	reloaded, err := repo.GetRevision(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "one", reloaded.Content)
}

func TestCurrentRevisionResolution(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page := &models.Page{Slug: "CarrotCake"}
	r1, err := repo.CreateRevision(ctx, page, "first", "", nil, nil)
	require.NoError(t, err)
	r2, err := repo.CreateRevision(ctx, page, "second", "", nil, nil)
	require.NoError(t, err)

	current, err := repo.CurrentRevision(page)
	require.NoError(t, err)
	assert.Equal(t, r2.ID, current.ID)
	assert.NotEqual(t, r1.ID, current.ID)
	assert.Equal(t, "second", current.Content)
}

func TestSlugUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := &models.Page{Slug: "FooBar"}
	_, err := repo.CreateRevision(ctx, first, "one", "", nil, nil)
	require.NoError(t, err)

	// A second save resolves the existing page instead of inserting a
	// duplicate row.
	reloaded, err := repo.GetPage("FooBar")
	require.NoError(t, err)
	_, err = repo.CreateRevision(ctx, reloaded, "two", "", nil, nil)
	require.NoError(t, err)

	pages, err := repo.ListPages()
	require.NoError(t, err)
	assert.Len(t, pages, 1)

	// Inserting a fresh placeholder for a taken slug is refused by the
	// unique constraint rather than silently duplicated.
	duplicate := &models.Page{Slug: "FooBar"}
	_, err = repo.CreateRevision(ctx, duplicate, "three", "", nil, nil)
	assert.Error(t, err)
}

func TestDeletePageCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page := &models.Page{Slug: "ShortLived"}
	rev, err := repo.CreateRevision(ctx, page, "content", "", nil, nil)
	require.NoError(t, err)
	_, err = repo.CreateRevision(ctx, page, "more", "", nil, nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeletePage(ctx, page))

	_, err = repo.GetPage("ShortLived")
	assert.ErrorIs(t, err, wiki.ErrNotFound)
	_, err = repo.GetRevision(rev.ID)
	assert.ErrorIs(t, err, wiki.ErrNotFound)
}

func TestDeleteRevisionKeepsOthers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page := &models.Page{Slug: "CarrotCake"}
	r1, err := repo.CreateRevision(ctx, page, "first", "", nil, nil)
	require.NoError(t, err)
	r2, err := repo.CreateRevision(ctx, page, "second", "", nil, nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRevision(ctx, r2))

	current, err := repo.CurrentRevision(page)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, current.ID)

	count, err := repo.CountRevisions(page)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListRevisionsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cake := &models.Page{Slug: "CarrotCake"}
	_, err := repo.CreateRevision(ctx, cake, "one", "", nil, nil)
	require.NoError(t, err)
	other := &models.Page{Slug: "OtherPage"}
	_, err = repo.CreateRevision(ctx, other, "two", "", nil, nil)
	require.NoError(t, err)
	latest, err := repo.CreateRevision(ctx, cake, "three", "", nil, nil)
	require.NoError(t, err)

	all, err := repo.ListRevisions(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, latest.ID, all[0].ID)

	scoped, err := repo.ListRevisions(cake.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, latest.ID, scoped[0].ID)
}

func TestCurrentRevisionIntegrityError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page := &models.Page{Slug: "BrokenPage"}
	rev, err := repo.CreateRevision(ctx, page, "only", "", nil, nil)
	require.NoError(t, err)

	// Strip the revision behind the store's back to simulate corruption.
	require.NoError(t, repo.DeleteRevision(ctx, rev))

	_, err = repo.CurrentRevision(page)
	assert.ErrorIs(t, err, wiki.ErrNoRevisions)
}
