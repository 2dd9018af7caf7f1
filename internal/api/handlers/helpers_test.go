package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/upstream"
	upstreamMocks "github.com/donaldgifford/device-compare/internal/upstream/mocks"
	"github.com/donaldgifford/device-compare/pkg/logger"
)

func inr(v float64) *float64 { return &v }

func catalogRecord(id, brand, model string, price, tech float64) upstream.CatalogRecord {
	return upstream.CatalogRecord{
		ID:          id,
		Brand:       brand,
		ModelName:   model,
		Image:       "https://img.example/" + id + ".png",
		SearchSpecs: upstream.SearchSpecs{PriceINR: inr(price), RAMGB: 8, StorageGB: 256},
		TechScore:   tech,
	}
}

func directory() []upstream.CatalogRecord {
	return []upstream.CatalogRecord{
		catalogRecord("a", "Nova", "Nova Alpha", 50000, 90),
		catalogRecord("b", "Nova", "Nova Beta", 45000, 95),
		catalogRecord("d", "Orbit", "Orbit Delta", 48000, 80),
	}
}

func compareRecord(id, model string, price float64) upstream.CompareRecord {
	return upstream.CompareRecord{
		ID:        id,
		Model:     model,
		Image:     "https://img.example/" + id + ".png",
		TechScore: 88,
		PriceINR:  inr(price),
		Ratings:   upstream.CompareRatings{UserScore: 8.2, UserVotes: 310},
	}
}

// expectDirectory primes api with a single-page catalog load.
func expectDirectory(api *upstreamMocks.MockCatalogAPI) {
	api.EXPECT().Search(mock.Anything, 1, 100).Return(&upstream.SearchResponse{
		Page:  1,
		Limit: 100,
		Total: len(directory()),
		Data:  directory(),
	}, nil).Once()
}

// expectProfile accepts one bearer token check.
func expectProfile(api *upstreamMocks.MockCatalogAPI) {
	api.EXPECT().Profile(mock.Anything).Return(&upstream.UserProfile{ID: "u1", Email: "u1@example.com"}, nil).Once()
}

func newCatalog(t *testing.T, api upstream.CatalogAPI) *catalog.Service {
	t.Helper()
	return catalog.NewService(api, nil, catalog.WithLogger(logger.Discard()))
}
