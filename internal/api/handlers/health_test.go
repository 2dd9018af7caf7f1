package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/api/handlers"
	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/store/mocks"
)

type fakeSnapshot struct {
	info catalog.SnapshotInfo
	ok   bool
}

func (f fakeSnapshot) Info() (catalog.SnapshotInfo, bool) {
	return f.info, f.ok
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Healthz(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	loadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		pingErr    error
		withStore  bool
		snapshot   handlers.SnapshotReporter
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns 200 when store ping succeeds",
			withStore:  true,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 503 when store ping fails",
			withStore:  true,
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable"}`,
		},
		{
			name:       "ready without a store",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "catalog not loaded yet is still ready",
			withStore:  true,
			snapshot:   fakeSnapshot{},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:      "reports the loaded catalog",
			withStore: true,
			snapshot: fakeSnapshot{
				info: catalog.SnapshotInfo{Products: 42, LoadedAt: loadedAt, Stale: true},
				ok:   true,
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","catalog":{"products":42,"loaded_at":"2026-03-01T12:00:00Z","stale":true}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var h *handlers.HealthHandler
			if tt.withStore {
				mockStore := mocks.NewMockStore(t)
				mockStore.EXPECT().Ping(mock.Anything).Return(tt.pingErr)
				h = handlers.NewHealthHandler(mockStore, tt.snapshot)
			} else {
				h = handlers.NewHealthHandler(nil, tt.snapshot)
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, h.Readyz(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
