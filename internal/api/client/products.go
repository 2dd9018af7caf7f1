package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/quota"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// SearchParams holds the query parameters for Search.
type SearchParams struct {
	Query string
	Price string
	Limit int
}

// SearchResponse is a search result plus the anonymous allowance left.
type SearchResponse struct {
	catalog.SearchResult
	Quota *quota.Status `json:"quota,omitempty"`
}

// Search runs a catalog search.
func (c *Client) Search(ctx context.Context, p *SearchParams) (*SearchResponse, error) {
	q := url.Values{}
	if p != nil {
		if p.Query != "" {
			q.Set("q", p.Query)
		}
		if p.Price != "" {
			q.Set("price", p.Price)
		}
		if p.Limit > 0 {
			q.Set("limit", strconv.Itoa(p.Limit))
		}
	}

	var resp SearchResponse
	if err := c.get(ctx, withQuery("/api/v1/products/search", q), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Suggest returns products whose names contain query, skipping exclude.
func (c *Client) Suggest(ctx context.Context, query string, exclude []string, limit int) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("q", query)
	if len(exclude) > 0 {
		q.Set("exclude", strings.Join(exclude, ","))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var products []domain.Product
	if err := c.get(ctx, withQuery("/api/v1/products/suggest", q), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Top returns the best scored products.
func (c *Client) Top(ctx context.Context, limit int) ([]domain.Product, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var products []domain.Product
	if err := c.get(ctx, withQuery("/api/v1/products/top", q), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product returns the detail view for one product.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/api/v1/products/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
