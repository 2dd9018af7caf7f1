package handlers_test

import (
	"context"
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

func TestAffiliateHandler_Missing(t *testing.T) {
	t.Parallel()

	api := upstreamMocks.NewMockCatalogAPI(t)
	recs := directory()
	recs[0].AffiliateLinks = map[string]string{
		"amazon":   "https://amzn.example/a",
		"flipkart": "https://fkrt.example/a",
	}
	api.EXPECT().Search(mock.Anything, 1, 100).Return(&upstream.SearchResponse{
		Page: 1, Limit: 100, Total: len(recs), Data: recs,
	}, nil).Once()

	_, humaAPI := humatest.New(t)
	handlers.RegisterAffiliateRoutes(humaAPI, handlers.NewAffiliateHandler(newCatalog(t, api)))

	resp := humaAPI.Get("/api/v1/affiliates/missing")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := resp.Body.String()
	assert.Contains(t, body, `"key":"amazon"`)
	assert.Contains(t, body, `"id":"b"`)
	assert.Contains(t, body, `"id":"d"`)
	assert.NotContains(t, body, `"id":"a"`)
}

func TestAffiliateHandler_Update(t *testing.T) {
	t.Parallel()

	hasBearer := mock.MatchedBy(func(ctx context.Context) bool {
		token, ok := upstream.BearerFromContext(ctx)
		return ok && token == "admin-token"
	})

	tests := []struct {
		name       string
		headers    []any
		body       map[string]any
		setupAPI   func(*upstreamMocks.MockCatalogAPI)
		wantStatus int
		wantBody   string
	}{
		{
			name:    "stores the link",
			headers: []any{"Authorization: Bearer admin-token"},
			body:    map[string]any{"retailer": "Amazon", "url": "https://amzn.example/p1"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().UpdateAffiliateLink(hasBearer, "p1", "amazon", "https://amzn.example/p1").Return(nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"updated"`,
		},
		{
			name:       "requires a bearer token",
			body:       map[string]any{"retailer": "amazon", "url": "https://amzn.example/p1"},
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "bearer token required",
		},
		{
			name:       "rejects a non-http url",
			headers:    []any{"Authorization: Bearer admin-token"},
			body:       map[string]any{"retailer": "amazon", "url": "ftp://amzn.example/p1"},
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "must start with http",
		},
		{
			name:       "rejects an unknown retailer",
			headers:    []any{"Authorization: Bearer admin-token"},
			body:       map[string]any{"retailer": "ebay", "url": "https://ebay.example/p1"},
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `unknown retailer \"ebay\"`,
		},
		{
			name:    "upstream rejects the token",
			headers: []any{"Authorization: Bearer admin-token"},
			body:    map[string]any{"retailer": "flipkart", "url": "https://fkrt.example/p1"},
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().UpdateAffiliateLink(hasBearer, "p1", "flipkart", "https://fkrt.example/p1").
					Return(upstream.ErrUnauthorized).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := upstreamMocks.NewMockCatalogAPI(t)
			tt.setupAPI(api)

			_, humaAPI := humatest.New(t)
			handlers.RegisterAffiliateRoutes(humaAPI, handlers.NewAffiliateHandler(newCatalog(t, api)))

			args := append(tt.headers, tt.body)
			resp := humaAPI.Put("/api/v1/affiliates/p1", args...)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
