package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/compare"
)

// CompareTableResponse is a comparison laid out row by row.
type CompareTableResponse struct {
	WinnerModel string        `json:"winnerModel"`
	Table       compare.Table `json:"table"`
}

// Compare returns the side-by-side view for ids.
func (c *Client) Compare(ctx context.Context, ids []string) (*catalog.CompareResult, error) {
	var res catalog.CompareResult
	if err := c.get(ctx, compareQuery("/api/v1/compare", ids), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CompareTable returns the comparison grouped into categories.
func (c *Client) CompareTable(ctx context.Context, ids []string) (*CompareTableResponse, error) {
	var res CompareTableResponse
	if err := c.get(ctx, compareQuery("/api/v1/compare/table", ids), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func compareQuery(path string, ids []string) string {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	return withQuery(path, q)
}
