package domain

import "slices"

// Role groups the permissions granted to its users.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// Grants reports whether the role carries p.
func (r *Role) Grants(p Permission) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Permissions, p)
}
