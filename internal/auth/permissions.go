package auth

import (
	"wakawaka/internal/models"
)

// PermissionSet is the capability set held by one caller. It implements the
// wiki workflow's PermissionChecker. Superusers hold every capability; the
// anonymous set holds none.
type PermissionSet struct {
	superuser bool
	names     map[string]bool
}

// Has reports whether the set contains the named capability.
func (p *PermissionSet) Has(name string) bool {
	if p == nil {
		return false
	}
	return p.superuser || p.names[name]
}

// PermissionsFor loads the capability set granted to the user. A nil user
// yields the empty anonymous set.
func (s *Service) PermissionsFor(user *models.User) (*PermissionSet, error) {
	set := &PermissionSet{names: map[string]bool{}}
	if user == nil {
		return set, nil
	}
	set.superuser = user.Superuser

	names, err := s.Repo.Permissions(user.ID)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		set.names[name] = true
	}
	return set, nil
}

// StaticPermissions builds a fixed capability set, used by tests and the
// admin tooling.
func StaticPermissions(names ...string) *PermissionSet {
	set := &PermissionSet{names: map[string]bool{}}
	for _, name := range names {
		set.names[name] = true
	}
	return set
}
