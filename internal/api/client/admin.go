package client

import (
	"context"
	"net/url"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/upstream"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// MissingAffiliatesResponse lists products lacking partner links.
type MissingAffiliatesResponse struct {
	Retailers []upstream.Retailer      `json:"retailers"`
	Products  []domain.AffiliateStatus `json:"products"`
}

// MissingAffiliates lists catalog entries without a usable link for every
// partner retailer.
func (c *Client) MissingAffiliates(ctx context.Context) (*MissingAffiliatesResponse, error) {
	var resp MissingAffiliatesResponse
	if err := c.get(ctx, "/api/v1/affiliates/missing", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateAffiliate stores a retailer link. The client must carry a token.
func (c *Client) UpdateAffiliate(ctx context.Context, id, retailer, link string) error {
	body := map[string]string{"retailer": retailer, "url": link}
	return c.put(ctx, "/api/v1/affiliates/"+url.PathEscape(id), body, nil)
}

// CatalogInfo describes the server's catalog snapshot.
type CatalogInfo struct {
	Loaded bool `json:"loaded"`
	catalog.SnapshotInfo
}

// GetCatalogInfo returns the server's snapshot state.
func (c *Client) GetCatalogInfo(ctx context.Context) (*CatalogInfo, error) {
	var info CatalogInfo
	if err := c.get(ctx, "/api/v1/catalog", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RefreshResult reports a manual catalog refresh.
type RefreshResult struct {
	Status   string `json:"status"`
	Products int    `json:"products"`
}

// RefreshCatalog reloads the catalog from upstream.
func (c *Client) RefreshCatalog(ctx context.Context) (*RefreshResult, error) {
	var res RefreshResult
	if err := c.post(ctx, "/api/v1/catalog/refresh", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetQuota returns a client's anonymous search allowance.
func (c *Client) GetQuota(ctx context.Context, clientID string) (*quota.Status, error) {
	var st quota.Status
	if err := c.get(ctx, "/api/v1/quota/"+url.PathEscape(clientID), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ResetQuota clears a client's search count.
func (c *Client) ResetQuota(ctx context.Context, clientID string) error {
	return c.del(ctx, "/api/v1/quota/"+url.PathEscape(clientID), nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/v1/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
