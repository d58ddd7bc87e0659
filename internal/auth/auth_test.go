package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakawaka/internal/auth"
	"wakawaka/internal/database"
	"wakawaka/internal/wiki"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return auth.NewService(auth.NewRepository(db))
}

func TestRegisterUserRejectsDuplicates(t *testing.T) {
	service := newTestService(t)

	user, err := service.RegisterUser("carrot", "Carrot", "longenoughpassword", false)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = service.RegisterUser("carrot", "Carrot Again", "longenoughpassword", false)
	assert.Error(t, err)
}

func TestSuperuserHoldsEveryPermission(t *testing.T) {
	service := newTestService(t)

	user, err := service.RegisterUser("root", "Root", "longenoughpassword", true)
	require.NoError(t, err)

	perms, err := service.PermissionsFor(user)
	require.NoError(t, err)
	assert.True(t, perms.Has(wiki.PermDeletePage))
	assert.True(t, perms.Has(wiki.PermAddRevision))
}

func TestGrantedPermissionsOnly(t *testing.T) {
	service := newTestService(t)

	user, err := service.RegisterUser("editor", "Editor", "longenoughpassword", false)
	require.NoError(t, err)

	require.NoError(t, service.Repo.GrantPermission(user.ID, wiki.PermChangePage))
	require.NoError(t, service.Repo.GrantPermission(user.ID, wiki.PermChangeRevision))
	// Granting twice is not an error.
	require.NoError(t, service.Repo.GrantPermission(user.ID, wiki.PermChangePage))

	perms, err := service.PermissionsFor(user)
	require.NoError(t, err)
	assert.True(t, perms.Has(wiki.PermChangePage))
	assert.True(t, perms.Has(wiki.PermChangeRevision))
	assert.False(t, perms.Has(wiki.PermDeletePage))
}

func TestAnonymousPermissionSetIsEmpty(t *testing.T) {
	service := newTestService(t)

	perms, err := service.PermissionsFor(nil)
	require.NoError(t, err)
	assert.False(t, perms.Has(wiki.PermAddPage))
}
