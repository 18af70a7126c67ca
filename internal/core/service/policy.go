package service

import "github.com/99minutos/user-admin/internal/core/domain"

// requireSession fails unless the request carries a resolved principal.
func requireSession(sess *domain.Session) error {
	if !sess.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// requirePermission must run before any store access so a refusal has no
// side effects.
func requirePermission(sess *domain.Session, p domain.Permission) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !sess.HasPermission(p) {
		return domain.ErrForbidden
	}
	return nil
}
