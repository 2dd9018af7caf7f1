package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/api/handlers"
	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/store"
	storeMocks "github.com/donaldgifford/device-compare/internal/store/mocks"
	upstreamMocks "github.com/donaldgifford/device-compare/internal/upstream/mocks"
	"github.com/donaldgifford/device-compare/pkg/logger"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

func TestCatalogHandler_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("refreshed", func(t *testing.T) {
		t.Parallel()

		api := upstreamMocks.NewMockCatalogAPI(t)
		expectDirectory(api)
		svc := newCatalog(t, api)

		_, humaAPI := humatest.New(t)
		handlers.RegisterCatalogRoutes(humaAPI, handlers.NewCatalogHandler(svc))

		resp := humaAPI.Post("/api/v1/catalog/refresh")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Contains(t, resp.Body.String(), `"status":"refreshed"`)
		assert.Contains(t, resp.Body.String(), `"products":3`)

		info := humaAPI.Get("/api/v1/catalog")
		require.Equal(t, http.StatusOK, info.Code)
		assert.Contains(t, info.Body.String(), `"loaded":true`)
		assert.Contains(t, info.Body.String(), `"products":3`)
	})

	t.Run("stale fallback", func(t *testing.T) {
		t.Parallel()

		api := upstreamMocks.NewMockCatalogAPI(t)
		api.EXPECT().Search(mock.Anything, 1, 100).Return(nil, errors.New("upstream down")).Once()

		rec := directory()[0]
		payload := []byte(`{"_id":"` + rec.ID + `","brand":"Nova","model_name":"Nova Alpha","search_specs":{"price_inr":50000}}`)

		ms := storeMocks.NewMockStore(t)
		ms.EXPECT().InsertJobRun(mock.Anything, catalog.JobRefresh).Return("run-1", nil).Once()
		ms.EXPECT().ListCatalog(mock.Anything).Return([]store.CatalogRow{{ID: rec.ID, Payload: payload}}, nil).Once()
		ms.EXPECT().CompleteJobRun(mock.Anything, "run-1", domain.JobStatusFailed, catalog.ErrStale.Error(), 1).
			Return(nil).Once()

		svc := catalog.NewService(api, ms, catalog.WithLogger(logger.Discard()))

		_, humaAPI := humatest.New(t)
		handlers.RegisterCatalogRoutes(humaAPI, handlers.NewCatalogHandler(svc))

		resp := humaAPI.Post("/api/v1/catalog/refresh")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Contains(t, resp.Body.String(), `"status":"stale"`)
		assert.Contains(t, resp.Body.String(), `"products":1`)
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()

		api := upstreamMocks.NewMockCatalogAPI(t)
		api.EXPECT().Search(mock.Anything, 1, 100).Return(nil, errors.New("upstream down")).Once()

		_, humaAPI := humatest.New(t)
		handlers.RegisterCatalogRoutes(humaAPI, handlers.NewCatalogHandler(newCatalog(t, api)))

		resp := humaAPI.Post("/api/v1/catalog/refresh")
		require.Equal(t, http.StatusBadGateway, resp.Code)
		assert.Contains(t, resp.Body.String(), "catalog refresh failed")
	})
}

func TestCatalogHandler_InfoBeforeLoad(t *testing.T) {
	t.Parallel()

	_, humaAPI := humatest.New(t)
	handlers.RegisterCatalogRoutes(humaAPI, handlers.NewCatalogHandler(newCatalog(t, upstreamMocks.NewMockCatalogAPI(t))))

	resp := humaAPI.Get("/api/v1/catalog")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"loaded":false`)
	assert.Contains(t, resp.Body.String(), `"products":0`)
}
