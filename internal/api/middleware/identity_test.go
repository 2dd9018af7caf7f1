package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/device-compare/internal/api/middleware"
	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/upstream"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		auth       string
		clientID   string
		remoteAddr string
		wantBearer string
		wantClient string
	}{
		{
			name:       "bearer and explicit client",
			auth:       "Bearer tok-1",
			clientID:   "device-42",
			remoteAddr: "10.0.0.9:4444",
			wantBearer: "tok-1",
			wantClient: "device-42",
		},
		{
			name:       "anonymous falls back to remote ip",
			remoteAddr: "10.0.0.9:4444",
			wantClient: "10.0.0.9",
		},
		{
			name:       "non-bearer scheme ignored",
			auth:       "Basic dXNlcjpwdw==",
			remoteAddr: "10.0.0.9:4444",
			wantClient: "10.0.0.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			if tt.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.auth)
			}
			if tt.clientID != "" {
				req.Header.Set(mw.ClientIDHeader, tt.clientID)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			var gotBearer, gotClient string
			handler := mw.Identity()(func(c echo.Context) error {
				gotBearer, _ = upstream.BearerFromContext(c.Request().Context())
				gotClient = quota.ClientFromContext(c.Request().Context())
				return nil
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.wantBearer, gotBearer)
			assert.Equal(t, tt.wantClient, gotClient)
		})
	}
}
