package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Status: StatusOK, Message: message, Data: data})
}

// Fail renders an error envelope with the given HTTP status.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Status: StatusError, Message: message})
}
