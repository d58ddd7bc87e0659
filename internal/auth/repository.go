package auth

import (
	"database/sql"

	"wakawaka/internal/models"
)

// Repository provides access to the authentication storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new authentication repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindUserByUsername finds a user by their username.
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRow("SELECT id, username, display_name, is_superuser FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.DisplayName, &user.Superuser)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindIdentityByProvider finds an identity by provider and provider user ID.
func (r *Repository) FindIdentityByProvider(provider, providerUserID string) (*models.Identity, error) {
	var identity models.Identity
	err := r.DB.QueryRow("SELECT id, user_id, provider, provider_user_id, password_hash FROM identities WHERE provider = ? AND provider_user_id = ?", provider, providerUserID).
		Scan(&identity.ID, &identity.UserID, &identity.Provider, &identity.ProviderUserID, &identity.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// CreateUser creates a new user and a corresponding identity.
func (r *Repository) CreateUser(user *models.User, identity *models.Identity) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO users (username, display_name, is_superuser) VALUES (?, ?, ?)",
		user.Username, user.DisplayName, user.Superuser)
	if err != nil {
		return err
	}

	userID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = userID
	identity.UserID = userID

	_, err = tx.Exec("INSERT INTO identities (user_id, provider, provider_user_id, password_hash) VALUES (?, ?, ?, ?)",
		identity.UserID, identity.Provider, identity.ProviderUserID, identity.PasswordHash)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GrantPermission gives the user a named capability.
func (r *Repository) GrantPermission(userID int64, permission string) error {
	_, err := r.DB.Exec("INSERT OR IGNORE INTO user_permissions (user_id, permission) VALUES (?, ?)",
		userID, permission)
	return err
}

// Permissions lists the capability names granted to the user.
func (r *Repository) Permissions(userID int64) ([]string, error) {
	rows, err := r.DB.Query("SELECT permission FROM user_permissions WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
