package models

// User is an account that can author revisions.
type User struct {
	ID          int64
	Username    string
	DisplayName string
	Superuser   bool
}
