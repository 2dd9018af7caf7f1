// Package handlers implements the device-compare HTTP API. JSON endpoints
// are huma operations; probes and the HTML comparison page are plain echo
// handlers.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/upstream"
)

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// statusFor maps service and upstream errors onto HTTP status codes.
// Anything unrecognised is treated as an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidCompare),
		errors.Is(err, catalog.ErrInvalidAffiliate),
		errors.Is(err, quota.ErrNoClient):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, quota.ErrLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(err, upstream.ErrDailyLimitReached):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// apiError converts err into a huma error. Upstream failures are prefixed
// with op so the client can tell which call failed.
func apiError(op string, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = op + ": " + msg
	}
	return huma.NewError(status, msg)
}

// echoError is apiError for plain echo handlers.
func echoError(op string, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = op + ": " + msg
	}
	return echo.NewHTTPError(status, msg)
}

// bearer returns the caller's token from the Authorization header value, or
// from the request context when middleware already parsed it.
func bearer(ctx context.Context, header string) string {
	if token := upstream.ParseBearer(header); token != "" {
		return token
	}
	token, _ := upstream.BearerFromContext(ctx)
	return token
}
