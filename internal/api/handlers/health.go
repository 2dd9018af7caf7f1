package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/device-compare/internal/catalog"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotReporter describes the in-memory catalog.
type SnapshotReporter interface {
	Info() (catalog.SnapshotInfo, bool)
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	store   Pinger
	catalog SnapshotReporter
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be
// nil.
func NewHealthHandler(s Pinger, c SnapshotReporter) *HealthHandler {
	return &HealthHandler{store: s, catalog: c}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type readyResponse struct {
	Status  string                `json:"status"`
	Catalog *catalog.SnapshotInfo `json:"catalog,omitempty"`
}

// Readyz returns 200 if the database is reachable, 503 otherwise. The
// catalog snapshot is reported but never gates readiness; the first query
// loads it.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, readyResponse{Status: "unavailable"})
		}
	}

	resp := readyResponse{Status: "ready"}
	if h.catalog != nil {
		if info, ok := h.catalog.Info(); ok {
			resp.Catalog = &info
		}
	}
	return c.JSON(http.StatusOK, resp)
}
