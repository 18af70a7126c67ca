package domain

// Session is the authenticated principal a request acts on behalf of.
type Session struct {
	User *User
}

// Authenticated reports whether the session carries a resolved user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// HasPermission reports whether the session user's role grants p.
func (s *Session) HasPermission(p Permission) bool {
	if !s.Authenticated() {
		return false
	}
	return s.User.Role.Grants(p)
}
