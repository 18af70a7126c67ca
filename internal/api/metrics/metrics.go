// Package metrics defines the custom Prometheus metrics of the user admin
// API. Metrics register with the default registry on import; HTTP request
// metrics come from the echoprometheus middleware wired in the router.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const namespace = "user_admin"

// UserOperationsTotal counts façade calls.
// Labels:
//   - operation: e.g. "list", "create", "set_state", "update_password"
//   - outcome: "ok" or a short error class (see Outcome)
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user management operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// UsersCreatedTotal counts accounts created through the API.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// Observe records one operation with the outcome derived from err.
func Observe(operation string, err error) {
	UserOperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome maps an operation error onto a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "invalid_password"
	default:
		return "error"
	}
}
