package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/api/middleware"
	"github.com/99minutos/user-admin/internal/core/domain"
)

// ctxSession returns the session injected by the Auth middleware. A missing
// session is passed on as nil; the service rejects it as unauthenticated.
func ctxSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(middleware.SessionKey).(*domain.Session)
	return sess
}
