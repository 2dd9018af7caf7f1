package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/upstream"
)

// ClientIDHeader names the header anonymous clients identify themselves with.
const ClientIDHeader = "X-Client-ID"

// Identity resolves who is calling. The Authorization bearer token is put
// on the request context for upstream forwarding, and the quota identity is
// taken from X-Client-ID or, failing that, the client IP.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			if token := upstream.ParseBearer(req.Header.Get(echo.HeaderAuthorization)); token != "" {
				ctx = upstream.WithBearer(ctx, token)
			}
			ctx = quota.WithClient(ctx, quota.ClientID(req.Header.Get(ClientIDHeader), c.RealIP()))

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
