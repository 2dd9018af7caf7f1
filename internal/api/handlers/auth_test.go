package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/api/handlers"
	"github.com/donaldgifford/device-compare/internal/upstream"
	upstreamMocks "github.com/donaldgifford/device-compare/internal/upstream/mocks"
)

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		setupAPI   func(*upstreamMocks.MockCatalogAPI)
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns the access token",
			body: map[string]any{"email": "a@b.co", "password": "secret"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Login(mock.Anything, upstream.Credentials{Email: "a@b.co", Password: "secret"}).
					Return(&upstream.AuthResponse{AccessToken: "tok-1"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"token":"tok-1"`,
		},
		{
			name: "bad credentials",
			body: map[string]any{"email": "a@b.co", "password": "wrong"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Login(mock.Anything, mock.Anything).Return(nil, upstream.ErrUnauthorized).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "empty token upstream",
			body: map[string]any{"email": "a@b.co", "password": "secret"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Login(mock.Anything, mock.Anything).Return(&upstream.AuthResponse{}, nil).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   "upstream returned no token",
		},
		{
			name:       "invalid email",
			body:       map[string]any{"email": "not-an-email", "password": "secret"},
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := upstreamMocks.NewMockCatalogAPI(t)
			tt.setupAPI(api)

			_, humaAPI := humatest.New(t)
			handlers.RegisterAuthRoutes(humaAPI, handlers.NewAuthHandler(api))

			resp := humaAPI.Post("/api/v1/auth/login", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		setupAPI   func(*upstreamMocks.MockCatalogAPI)
		wantStatus int
		wantBody   string
	}{
		{
			name: "created",
			body: map[string]any{"name": "Asha", "email": "a@b.co", "password": "secret1"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Signup(mock.Anything, upstream.Credentials{Name: "Asha", Email: "a@b.co", Password: "secret1"}).
					Return(&upstream.AuthResponse{Token: "tok-2"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"token":"tok-2"`,
		},
		{
			name:       "short password",
			body:       map[string]any{"name": "Asha", "email": "a@b.co", "password": "abc"},
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "upstream failure",
			body: map[string]any{"name": "Asha", "email": "a@b.co", "password": "secret1"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Signup(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   "signup: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := upstreamMocks.NewMockCatalogAPI(t)
			tt.setupAPI(api)

			_, humaAPI := humatest.New(t)
			handlers.RegisterAuthRoutes(humaAPI, handlers.NewAuthHandler(api))

			resp := humaAPI.Post("/api/v1/auth/signup", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Parallel()

	t.Run("forwards the caller token", func(t *testing.T) {
		t.Parallel()

		api := upstreamMocks.NewMockCatalogAPI(t)
		api.EXPECT().Profile(mock.MatchedBy(func(ctx context.Context) bool {
			token, ok := upstream.BearerFromContext(ctx)
			return ok && token == "user-token"
		})).Return(&upstream.UserProfile{ID: "u1", Name: "Asha", Email: "a@b.co", Role: "Admin"}, nil).Once()

		_, humaAPI := humatest.New(t)
		handlers.RegisterAuthRoutes(humaAPI, handlers.NewAuthHandler(api))

		resp := humaAPI.Get("/api/v1/auth/profile", "Authorization: Bearer user-token")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Contains(t, resp.Body.String(), `"id":"u1"`)
		assert.Contains(t, resp.Body.String(), `"admin":true`)
	})

	t.Run("requires a token", func(t *testing.T) {
		t.Parallel()

		_, humaAPI := humatest.New(t)
		handlers.RegisterAuthRoutes(humaAPI, handlers.NewAuthHandler(upstreamMocks.NewMockCatalogAPI(t)))

		resp := humaAPI.Get("/api/v1/auth/profile")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
