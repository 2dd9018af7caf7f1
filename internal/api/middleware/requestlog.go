package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type requestIDCtxKey struct{}

// RequestID returns the ID assigned by RequestLog, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// probePaths are logged on their first success and on every failure;
// repeated successes are dropped.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header, the echo context and the request context.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), requestIDCtxKey{}, reqID)))

			err := next(c)

			path := req.URL.Path
			status := c.Response().Status
			level := slog.LevelInfo
			if _, probe := probePaths[path]; probe {
				if status >= 200 && status < 300 {
					if _, logged := seen.LoadOrStore(path, struct{}{}); logged {
						return err
					}
				} else {
					level = slog.LevelWarn
				}
			} else if status >= 500 {
				level = slog.LevelWarn
			}

			log.LogAttrs(req.Context(), level, "request",
				slog.String("method", req.Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", reqID),
			)

			return err
		}
	}
}
