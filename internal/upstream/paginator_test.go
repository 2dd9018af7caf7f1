package upstream_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/upstream"
	"github.com/donaldgifford/device-compare/internal/upstream/mocks"
)

func page(start, n, limit, total int) *upstream.SearchResponse {
	resp := &upstream.SearchResponse{Limit: limit, Total: total}
	for i := range n {
		resp.Data = append(resp.Data, upstream.CatalogRecord{ID: fmt.Sprintf("p%d", start+i)})
	}
	return resp
}

func ids(recs []upstream.CatalogRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestPaginator_SinglePage(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockCatalogAPI(t)
	api.EXPECT().Search(mock.Anything, 1, 100).Return(page(0, 3, 100, 3), nil).Once()

	recs, err := upstream.NewPaginator(api).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "p2"}, ids(recs))
}

func TestPaginator_MultiplePagesInOrder(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockCatalogAPI(t)
	api.EXPECT().Search(mock.Anything, 1, 10).Return(page(0, 2, 2, 5), nil).Once()
	api.EXPECT().Search(mock.Anything, 2, 2).Return(page(2, 2, 2, 5), nil).Once()
	api.EXPECT().Search(mock.Anything, 3, 2).Return(page(4, 1, 2, 5), nil).Once()

	recs, err := upstream.NewPaginator(api, upstream.WithPageSize(10)).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4"}, ids(recs))
}

func TestPaginator_MaxPages(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockCatalogAPI(t)
	api.EXPECT().Search(mock.Anything, 1, 2).Return(page(0, 2, 2, 100), nil).Once()
	api.EXPECT().Search(mock.Anything, 2, 2).Return(page(2, 2, 2, 100), nil).Once()

	recs, err := upstream.NewPaginator(api,
		upstream.WithPageSize(2),
		upstream.WithMaxPages(2),
	).All(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 4)
}

func TestPaginator_MaxRecords(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockCatalogAPI(t)
	api.EXPECT().Search(mock.Anything, 1, 100).Return(page(0, 5, 100, 5), nil).Once()

	recs, err := upstream.NewPaginator(api, upstream.WithMaxRecords(3)).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "p2"}, ids(recs))
}

func TestPaginator_Errors(t *testing.T) {
	t.Parallel()

	t.Run("first page", func(t *testing.T) {
		t.Parallel()

		api := mocks.NewMockCatalogAPI(t)
		api.EXPECT().Search(mock.Anything, 1, 100).Return(nil, upstream.ErrUnauthorized).Once()

		_, err := upstream.NewPaginator(api).All(context.Background())
		require.ErrorIs(t, err, upstream.ErrUnauthorized)
		assert.Contains(t, err.Error(), "searching page 1")
	})

	t.Run("later page", func(t *testing.T) {
		t.Parallel()

		api := mocks.NewMockCatalogAPI(t)
		api.EXPECT().Search(mock.Anything, 1, 2).Return(page(0, 2, 2, 4), nil).Once()
		api.EXPECT().Search(mock.Anything, 2, 2).Return(nil, errors.New("boom")).Once()

		_, err := upstream.NewPaginator(api, upstream.WithPageSize(2)).All(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "searching page 2")
	})
}

func TestPaginator_EmptyFirstPage(t *testing.T) {
	t.Parallel()

	api := mocks.NewMockCatalogAPI(t)
	api.EXPECT().Search(mock.Anything, 1, 100).Return(page(0, 0, 100, 50), nil).Once()

	recs, err := upstream.NewPaginator(api).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}
