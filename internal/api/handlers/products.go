package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/pkg/normalize"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// ProductCatalog is the read side of the catalog service.
type ProductCatalog interface {
	Search(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error)
	Suggest(ctx context.Context, query string, exclude []string, limit int) ([]domain.Product, error)
	Top(ctx context.Context, limit int) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// SearchQuota meters anonymous searches.
type SearchQuota interface {
	Enforce(ctx context.Context, client string) (quota.Status, error)
	Record(ctx context.Context, client string) (quota.Status, error)
}

// BearerVerifier confirms a caller's bearer token with upstream.
type BearerVerifier interface {
	Verify(ctx context.Context, token string) error
}

// ProductsHandler serves product search, suggestions, rankings and detail.
type ProductsHandler struct {
	catalog ProductCatalog
	quota   SearchQuota
	tokens  BearerVerifier
}

// NewProductsHandler creates a new ProductsHandler. A nil quota disables
// the anonymous search limit. Only bearer tokens accepted by v skip the
// limit; with a nil v every search is metered.
func NewProductsHandler(c ProductCatalog, q SearchQuota, v BearerVerifier) *ProductsHandler {
	return &ProductsHandler{catalog: c, quota: q, tokens: v}
}

// SearchInput is the request for the search endpoint.
type SearchInput struct {
	Query         string `query:"q"     doc:"Case-insensitive name match"                    example:"galaxy"`
	Price         string `query:"price" doc:"Budget ceiling, bare or currency formatted"     example:"₹30,000"`
	Limit         int    `query:"limit" doc:"Maximum matches to return (0 for all)"          minimum:"0" maximum:"200"`
	Authorization string `header:"Authorization" doc:"Bearer token; verified callers are not metered"`
	ClientID      string `header:"X-Client-ID"   doc:"Anonymous client identity; defaults to the caller IP"`
}

// SearchBody is a search result plus the caller's remaining allowance.
type SearchBody struct {
	catalog.SearchResult
	Quota *quota.Status `json:"quota,omitempty" doc:"Anonymous search allowance after this search"`
}

// SearchOutput is the response for the search endpoint.
type SearchOutput struct {
	Body SearchBody
}

// Search runs a catalog search. Anonymous callers are limited to the
// configured number of searches. A bearer token upstream rejects is a 401.
func (h *ProductsHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	metered := h.quota != nil
	if token := bearer(ctx, input.Authorization); metered && token != "" && h.tokens != nil {
		if err := h.tokens.Verify(ctx, token); err != nil {
			return nil, apiError("verifying token", err)
		}
		metered = false
	}

	client := ""
	if metered {
		client = quota.ClientID(input.ClientID, quota.ClientFromContext(ctx))
		if _, err := h.quota.Enforce(ctx, client); err != nil {
			if errors.Is(err, quota.ErrLimitReached) || errors.Is(err, quota.ErrNoClient) {
				return nil, apiError("search", err)
			}
			return nil, huma.Error500InternalServerError(err.Error())
		}
	}

	res, err := h.catalog.Search(ctx, catalog.SearchQuery{
		Query:    input.Query,
		PriceMax: normalize.ParseBudget(input.Price),
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, apiError("searching catalog", err)
	}

	out := &SearchOutput{Body: SearchBody{SearchResult: *res}}
	if client != "" {
		st, err := h.quota.Record(ctx, client)
		if err != nil {
			return nil, huma.Error500InternalServerError(err.Error())
		}
		out.Body.Quota = &st
	}
	return out, nil
}

// SuggestInput is the request for the suggest endpoint.
type SuggestInput struct {
	Query   string `query:"q"       doc:"Case-insensitive name match" example:"nova"`
	Exclude string `query:"exclude" doc:"Comma-separated IDs to leave out" example:"id1,id2"`
	Limit   int    `query:"limit"   doc:"Maximum suggestions" default:"10" minimum:"1" maximum:"50"`
}

// ProductListOutput is a plain list of products.
type ProductListOutput struct {
	Body []domain.Product
}

// Suggest returns autocomplete candidates, typically for adding a product
// to a comparison.
func (h *ProductsHandler) Suggest(ctx context.Context, input *SuggestInput) (*ProductListOutput, error) {
	var exclude []string
	for id := range strings.SplitSeq(input.Exclude, ",") {
		if id = strings.TrimSpace(id); id != "" {
			exclude = append(exclude, id)
		}
	}

	products, err := h.catalog.Suggest(ctx, input.Query, exclude, input.Limit)
	if err != nil {
		return nil, apiError("suggesting products", err)
	}
	return &ProductListOutput{Body: products}, nil
}

// TopInput is the request for the top endpoint.
type TopInput struct {
	Limit int `query:"limit" doc:"Number of products" default:"10" minimum:"1" maximum:"50"`
}

// Top returns the best scored products.
func (h *ProductsHandler) Top(ctx context.Context, input *TopInput) (*ProductListOutput, error) {
	products, err := h.catalog.Top(ctx, input.Limit)
	if err != nil {
		return nil, apiError("ranking products", err)
	}
	return &ProductListOutput{Body: products}, nil
}

// GetProductInput is the request path for a single product.
type GetProductInput struct {
	ID string `path:"id" doc:"Upstream product ID"`
}

// GetProductOutput is a product detail view.
type GetProductOutput struct {
	Body *domain.Product
}

// GetProduct returns the detail view for one product, with expert reviews
// when upstream has them.
func (h *ProductsHandler) GetProduct(ctx context.Context, input *GetProductInput) (*GetProductOutput, error) {
	p, err := h.catalog.Product(ctx, input.ID)
	if err != nil {
		return nil, apiError("fetching product", err)
	}
	return &GetProductOutput{Body: p}, nil
}

// RegisterProductRoutes registers product endpoints with the Huma API.
// Fixed paths are registered before /{id} so routers that match in
// registration order resolve them first.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/search",
		Summary:     "Search products",
		Description: "Filters the catalog by name and budget. The best match is returned with up to three " +
			"same-category competitors priced just below it. Anonymous callers get a limited number of searches.",
		Tags: []string{"products"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusTooManyRequests,
			http.StatusBadGateway,
		},
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID: "suggest-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/suggest",
		Summary:     "Suggest products",
		Description: "Returns products whose names contain the query, skipping excluded IDs.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Suggest)

	huma.Register(api, huma.Operation{
		OperationID: "top-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/top",
		Summary:     "Top products",
		Description: "Returns products ordered by Beebom score, highest first.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Top)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get a product",
		Description: "Returns the detail view for one product, including expert reviews when available.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.GetProduct)
}
