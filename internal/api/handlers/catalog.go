package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/internal/catalog"
)

// Refresher reloads the catalog on demand.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
	Info() (catalog.SnapshotInfo, bool)
}

// CatalogHandler exposes the snapshot state and a manual refresh.
type CatalogHandler struct {
	catalog Refresher
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(r Refresher) *CatalogHandler {
	return &CatalogHandler{catalog: r}
}

// CatalogInfoOutput describes the snapshot.
type CatalogInfoOutput struct {
	Body struct {
		Loaded bool `json:"loaded" doc:"Whether a snapshot is in memory"`
		catalog.SnapshotInfo
	}
}

// Info reports the snapshot held in memory.
func (h *CatalogHandler) Info(_ context.Context, _ *struct{}) (*CatalogInfoOutput, error) {
	out := &CatalogInfoOutput{}
	out.Body.SnapshotInfo, out.Body.Loaded = h.catalog.Info()
	return out, nil
}

// RefreshOutput is the response body for the refresh endpoint.
type RefreshOutput struct {
	Body struct {
		Status   string `json:"status"   example:"refreshed" doc:"refreshed or stale"`
		Products int    `json:"products" example:"312"       doc:"Products now in the snapshot"`
	}
}

// Refresh reloads the directory from upstream. When upstream is down but a
// stored copy exists the stored copy is served and status is "stale".
func (h *CatalogHandler) Refresh(ctx context.Context, _ *struct{}) (*RefreshOutput, error) {
	n, err := h.catalog.Refresh(ctx)

	out := &RefreshOutput{}
	out.Body.Products = n
	switch {
	case err == nil:
		out.Body.Status = "refreshed"
	case errors.Is(err, catalog.ErrStale):
		out.Body.Status = "stale"
	default:
		return nil, huma.Error502BadGateway("catalog refresh failed: " + err.Error())
	}
	return out, nil
}

// RegisterCatalogRoutes registers the catalog maintenance endpoints with
// the Huma API.
func RegisterCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "catalog-info",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "Catalog snapshot state",
		Tags:        []string{"catalog"},
	}, h.Info)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-catalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/refresh",
		Summary:     "Refresh the catalog",
		Description: "Reloads every upstream catalog page, adapts the records and persists them for stale fallback.",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Refresh)
}
