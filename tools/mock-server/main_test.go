package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/upstream"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testServer(t *testing.T) http.Handler {
	t.Helper()
	records, err := loadFixture(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)
	return newServer(testLogger(), records).routes()
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	records, err := loadFixture(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "nova-alpha", records[0].ID)
	require.NotNil(t, records[0].ExpertView)

	_, err = loadFixture(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}

func TestSearch_Pagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		wantIDs []string
	}{
		{name: "first page", target: "/phones/search?page=1&limit=3", wantIDs: []string{"nova-alpha", "nova-beta", "orbit-delta"}},
		{name: "second page", target: "/phones/search?page=2&limit=3", wantIDs: []string{"orbit-tab"}},
		{name: "past the end", target: "/phones/search?page=5&limit=3", wantIDs: []string{}},
		{name: "defaults", target: "/phones/search", wantIDs: []string{"nova-alpha", "nova-beta", "orbit-delta", "orbit-tab"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(t, testServer(t), http.MethodGet, tt.target, "", "")
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[upstream.SearchResponse](t, w)
			assert.Equal(t, 4, resp.Total)
			ids := make([]string, 0, len(resp.Data))
			for _, rec := range resp.Data {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	w := do(t, testServer(t), http.MethodGet, "/phones/compare?ids=nova-beta,ghost,nova-alpha", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[upstream.CompareResponse](t, w)
	require.Len(t, resp.Phones, 2)
	assert.Equal(t, "nova-beta", resp.Phones[0].ID)
	assert.Equal(t, "Nova Alpha", resp.WinnerModel)
	assert.True(t, resp.Phones[1].Ratings.ExpertScore.Valid)
	assert.InDelta(t, 8.6, resp.Phones[1].Ratings.ExpertScore.Value, 0.001)
	assert.False(t, resp.Phones[0].Ratings.ExpertScore.Valid)
}

func TestExpertRatings(t *testing.T) {
	t.Parallel()

	h := testServer(t)

	w := do(t, h, http.MethodGet, "/company_rate/nova-alpha", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expert_view"`)
	assert.Contains(t, w.Body.String(), "Gadgets Weekly")

	w = do(t, h, http.MethodGet, "/company_rate/nova-beta", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	h := testServer(t)

	w := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"admin@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	auth := decode[upstream.AuthResponse](t, w)
	token := auth.BearerToken()
	require.True(t, strings.HasPrefix(token, "mock-token-"))

	w = do(t, h, http.MethodGet, "/auth/profile", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[upstream.UserProfile](t, w)
	assert.Equal(t, "admin@example.com", profile.Email)
	assert.True(t, profile.IsAdmin())

	w = do(t, h, http.MethodGet, "/auth/profile", "unknown", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/auth/login", "", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignup(t *testing.T) {
	t.Parallel()

	h := testServer(t)

	w := do(t, h, http.MethodPost, "/auth/signup", "", `{"name":"Asha","email":"asha@example.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[upstream.AuthResponse](t, w)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.Token)

	w = do(t, h, http.MethodGet, "/auth/profile", resp.AccessToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	signupProfile := decode[upstream.UserProfile](t, w)
	assert.False(t, signupProfile.IsAdmin())

	w = do(t, h, http.MethodPost, "/auth/signup", "", `{"email":"asha@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAffiliate(t *testing.T) {
	t.Parallel()

	h := testServer(t)

	w := do(t, h, http.MethodPut, "/phones/nova-beta/affiliate", "", `{"retailer":"amazon","url":"https://a.example"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/auth/login", "", `{"email":"admin@example.com","password":"pw"}`)
	auth := decode[upstream.AuthResponse](t, w)
	token := auth.BearerToken()

	w = do(t, h, http.MethodPut, "/phones/nova-beta/affiliate", token, `{"retailer":"amazon","url":"https://a.example"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/phones/search?limit=10", "", "")
	resp := decode[upstream.SearchResponse](t, w)
	assert.Equal(t, "https://a.example", resp.Data[1].AffiliateLinks["amazon"])

	w = do(t, h, http.MethodPut, "/phones/ghost/affiliate", token, `{"retailer":"amazon","url":"https://a.example"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPut, "/phones/nova-beta/affiliate", token, `{"retailer":"amazon"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPClientAgainstMock(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(testServer(t))
	t.Cleanup(srv.Close)

	c := upstream.NewHTTPClient(upstream.WithBaseURL(srv.URL), upstream.WithHTTPClient(srv.Client()))

	resp, err := c.Search(t.Context(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)

	view, err := c.ExpertRatings(t.Context(), "nova-alpha")
	require.NoError(t, err)
	assert.Equal(t, 2, view.ReviewCount)
}
