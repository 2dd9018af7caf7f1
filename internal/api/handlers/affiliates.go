package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/internal/upstream"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// AffiliateManager is the admin side of the catalog service.
type AffiliateManager interface {
	MissingAffiliateLinks(ctx context.Context) ([]domain.AffiliateStatus, error)
	UpdateAffiliateLink(ctx context.Context, id, retailer, link string) error
}

// AffiliateHandler serves the affiliate link admin endpoints.
type AffiliateHandler struct {
	catalog AffiliateManager
}

// NewAffiliateHandler creates a new AffiliateHandler.
func NewAffiliateHandler(c AffiliateManager) *AffiliateHandler {
	return &AffiliateHandler{catalog: c}
}

// MissingAffiliatesOutput lists products lacking partner links.
type MissingAffiliatesOutput struct {
	Body struct {
		Retailers []upstream.Retailer      `json:"retailers" doc:"Partner retailers links are tracked for"`
		Products  []domain.AffiliateStatus `json:"products"`
	}
}

// Missing lists catalog entries without a usable link for every partner.
func (h *AffiliateHandler) Missing(ctx context.Context, _ *struct{}) (*MissingAffiliatesOutput, error) {
	missing, err := h.catalog.MissingAffiliateLinks(ctx)
	if err != nil {
		return nil, apiError("listing affiliate links", err)
	}

	out := &MissingAffiliatesOutput{}
	out.Body.Retailers = upstream.KnownRetailers()
	out.Body.Products = missing
	return out, nil
}

// UpdateAffiliateInput sets one retailer link.
type UpdateAffiliateInput struct {
	ID            string `path:"id" doc:"Upstream product ID"`
	Authorization string `header:"Authorization" doc:"Bearer token forwarded upstream"`
	Body          struct {
		Retailer string `json:"retailer" doc:"Retailer key" example:"amazon"`
		URL      string `json:"url"      doc:"Affiliate link" example:"https://amzn.to/abc"`
	}
}

// UpdateAffiliateOutput acknowledges an update.
type UpdateAffiliateOutput struct {
	Body StatusResponse
}

// Update stores a retailer link upstream on behalf of the caller.
func (h *AffiliateHandler) Update(ctx context.Context, input *UpdateAffiliateInput) (*UpdateAffiliateOutput, error) {
	token := bearer(ctx, input.Authorization)
	if token == "" {
		return nil, huma.Error401Unauthorized("bearer token required")
	}

	ctx = upstream.WithBearer(ctx, token)
	if err := h.catalog.UpdateAffiliateLink(ctx, input.ID, input.Body.Retailer, input.Body.URL); err != nil {
		return nil, apiError("updating affiliate link", err)
	}
	return &UpdateAffiliateOutput{Body: StatusResponse{Status: "updated"}}, nil
}

// RegisterAffiliateRoutes registers the affiliate admin endpoints with the
// Huma API.
func RegisterAffiliateRoutes(api huma.API, h *AffiliateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-missing-affiliates",
		Method:      http.MethodGet,
		Path:        "/api/v1/affiliates/missing",
		Summary:     "List products missing affiliate links",
		Description: "Returns catalog entries that do not yet carry a usable link for every partner retailer.",
		Tags:        []string{"affiliates"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Missing)

	huma.Register(api, huma.Operation{
		OperationID: "update-affiliate",
		Method:      http.MethodPut,
		Path:        "/api/v1/affiliates/{id}",
		Summary:     "Set an affiliate link",
		Description: "Stores a partner retailer link upstream. The caller's bearer token is forwarded.",
		Tags:        []string{"affiliates"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusBadGateway,
		},
	}, h.Update)
}
