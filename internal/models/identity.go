package models

// Identity represents a user's authentication method.
type Identity struct {
	ID             int64
	UserID         int64
	Provider       string
	ProviderUserID string
	PasswordHash   *string
}
