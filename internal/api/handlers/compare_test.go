package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/api/handlers"
	"github.com/donaldgifford/device-compare/internal/upstream"
	upstreamMocks "github.com/donaldgifford/device-compare/internal/upstream/mocks"
)

func expectPair(m *upstreamMocks.MockCatalogAPI) {
	m.EXPECT().Compare(mock.Anything, []string{"p1", "p2"}).Return(&upstream.CompareResponse{
		WinnerModel: "Nova Beta",
		Phones: []upstream.CompareRecord{
			compareRecord("p1", "Nova Alpha", 54999),
			compareRecord("p2", "Nova Beta", 49999),
		},
	}, nil).Once()
}

func TestCompareHandler_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setupAPI   func(*upstreamMocks.MockCatalogAPI)
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "two products with duplicates dropped",
			path:       "/api/v1/compare?ids=p1,p2,p1",
			setupAPI:   expectPair,
			wantStatus: http.StatusOK,
			wantBody:   []string{`"winnerModel":"Nova Beta"`, `"name":"Nova Alpha"`, `"price":49999`},
		},
		{
			name:       "too many ids",
			path:       "/api/v1/compare?ids=a,b,c,d,e,f",
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"at most 5 ids, got 6"},
		},
		{
			name:       "blank ids",
			path:       "/api/v1/compare?ids=,%20,",
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"at least one id is required"},
		},
		{
			name:       "ids parameter missing",
			path:       "/api/v1/compare",
			setupAPI:   func(*upstreamMocks.MockCatalogAPI) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown id",
			path: "/api/v1/compare?ids=ghost",
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Compare(mock.Anything, []string{"ghost"}).Return(nil, upstream.ErrNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "upstream over daily budget",
			path: "/api/v1/compare?ids=p1",
			setupAPI: func(m *upstreamMocks.MockCatalogAPI) {
				m.EXPECT().Compare(mock.Anything, []string{"p1"}).Return(nil, upstream.ErrDailyLimitReached).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   []string{"comparing products"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := upstreamMocks.NewMockCatalogAPI(t)
			tt.setupAPI(api)

			_, humaAPI := humatest.New(t)
			handlers.RegisterCompareRoutes(humaAPI, handlers.NewCompareHandler(newCatalog(t, api)))

			resp := humaAPI.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}

func TestCompareHandler_Table(t *testing.T) {
	t.Parallel()

	api := upstreamMocks.NewMockCatalogAPI(t)
	expectPair(api)

	_, humaAPI := humatest.New(t)
	handlers.RegisterCompareRoutes(humaAPI, handlers.NewCompareHandler(newCatalog(t, api)))

	resp := humaAPI.Get("/api/v1/compare/table?ids=p1,p2")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := resp.Body.String()
	assert.Contains(t, body, `"winnerModel":"Nova Beta"`)
	assert.Contains(t, body, `"title":"Display"`)
	assert.Contains(t, body, `"values":["₹54,999","₹49,999"],"differs":true`)
}

func TestCompareHandler_Page(t *testing.T) {
	t.Parallel()

	t.Run("renders html", func(t *testing.T) {
		t.Parallel()

		api := upstreamMocks.NewMockCatalogAPI(t)
		expectPair(api)
		h := handlers.NewCompareHandler(newCatalog(t, api))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/compare?ids=p1,p2", http.NoBody)
		rec := httptest.NewRecorder()

		require.NoError(t, h.Page(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
		assert.Contains(t, rec.Body.String(), `<table class="compare">`)
		assert.Contains(t, rec.Body.String(), "Nova Alpha")
	})

	t.Run("invalid request is an echo error", func(t *testing.T) {
		t.Parallel()

		h := handlers.NewCompareHandler(newCatalog(t, upstreamMocks.NewMockCatalogAPI(t)))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/compare", http.NoBody)
		rec := httptest.NewRecorder()

		err := h.Page(e.NewContext(req, rec))
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he))
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
