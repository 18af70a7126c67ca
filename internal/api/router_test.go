package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

const testSecret = "router-secret"

// fakeUsers implements ports.UserService; unset calls report ErrForbidden.
type fakeUsers struct {
	ports.UserService
	getFn  func(ctx context.Context, sess *domain.Session, id int64) (*ports.UserView, error)
	infoFn func(ctx context.Context, sess *domain.Session) (*ports.UserInfo, error)
}

func (f *fakeUsers) GetUser(ctx context.Context, sess *domain.Session, id int64) (*ports.UserView, error) {
	if f.getFn == nil {
		return nil, domain.ErrForbidden
	}
	return f.getFn(ctx, sess, id)
}

func (f *fakeUsers) CurrentUser(ctx context.Context, sess *domain.Session) (*ports.UserInfo, error) {
	if f.infoFn == nil {
		return nil, domain.ErrForbidden
	}
	return f.infoFn(ctx, sess)
}

type fakeSessions struct {
	err error
}

func (f fakeSessions) Resolve(ctx context.Context, userID int64) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Session{User: &domain.User{ID: userID, Username: "root", State: true}}, nil
}

func newTestRouter(users ports.UserService, sessions ports.SessionResolver, checks ...handler.DependencyCheck) http.Handler {
	return NewRouter(Dependencies{
		Users:     users,
		Sessions:  sessions,
		JWTSecret: testSecret,
		Logger:    zerolog.Nop(),
		Checks:    checks,
		Registry:  prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": "root",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(t *testing.T, h http.Handler, method, target, auth string) (*httptest.ResponseRecorder, handler.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env handler.Envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRouter_GetUser_EndToEnd(t *testing.T) {
	users := &fakeUsers{getFn: func(ctx context.Context, sess *domain.Session, id int64) (*ports.UserView, error) {
		require.NotNil(t, sess)
		assert.Equal(t, int64(7), sess.User.ID)
		return &ports.UserView{ID: id, Username: "alice", RoleName: "member"}, nil
	}}
	h := newTestRouter(users, fakeSessions{})

	rec, env := do(t, h, http.MethodGet, "/users/42", bearer(t, 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.StatusOK, env.Status)
	assert.Equal(t, "user found", env.Message)
	assert.Equal(t, "alice", env.Data.(map[string]any)["username"])
}

func TestRouter_InfoIsNotShadowedByID(t *testing.T) {
	users := &fakeUsers{infoFn: func(ctx context.Context, sess *domain.Session) (*ports.UserInfo, error) {
		return &ports.UserInfo{ID: sess.User.ID, Username: sess.User.Username}, nil
	}}
	h := newTestRouter(users, fakeSessions{})

	rec, env := do(t, h, http.MethodGet, "/users/info", bearer(t, 3))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root", env.Data.(map[string]any)["username"])
}

func TestRouter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"duplicate", domain.ErrDuplicateUsername, http.StatusConflict, "username already exists"},
		{"invalid role", domain.ErrInvalidRole, http.StatusUnprocessableEntity, "invalid role"},
		{"wrong password", domain.ErrWrongPassword, http.StatusBadRequest, "wrong password"},
		{"password too long", fmt.Errorf("hash password: %w", domain.ErrPasswordTooLong), http.StatusUnprocessableEntity, "password must be at most 72 bytes"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"wrapped", errors.Join(errors.New("context"), domain.ErrUserNotFound), http.StatusNotFound, "user not found"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{getFn: func(ctx context.Context, sess *domain.Session, id int64) (*ports.UserView, error) {
				return nil, tt.err
			}}
			h := newTestRouter(users, fakeSessions{})

			rec, env := do(t, h, http.MethodGet, "/users/1", bearer(t, 1))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, handler.StatusError, env.Status)
			assert.Equal(t, tt.msg, env.Message)
			assert.Nil(t, env.Data)
		})
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	h := newTestRouter(&fakeUsers{}, fakeSessions{})

	rec, env := do(t, h, http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, handler.StatusError, env.Status)
	assert.Equal(t, "missing authorization header", env.Message)
}

func TestRouter_DisabledAccount(t *testing.T) {
	h := newTestRouter(&fakeUsers{}, fakeSessions{err: domain.ErrAccountDisabled})

	rec, env := do(t, h, http.MethodGet, "/users/1", bearer(t, 1))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, handler.StatusError, env.Status)
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(&fakeUsers{}, fakeSessions{})

	rec, env := do(t, h, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handler.StatusError, env.Status)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(&fakeUsers{}, fakeSessions{}, handler.DependencyCheck{
		Name: "mongodb",
		Ping: func(ctx context.Context) error { return nil },
	})

	rec, _ := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mongodb":{"status":"ok"}`)

	rec, _ = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_admin_requests_total")
}
