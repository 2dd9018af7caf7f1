// Package upstream is the client for the remote catalog API and the adapter
// that turns its records into storefront products. The API is abstracted
// behind CatalogAPI for testability.
package upstream

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors mapped from upstream HTTP status codes.
var (
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrNotFound     = errors.New("upstream: not found")
)

// StatusError is returned for non-2xx responses other than 401 and 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream API error (status %d): %s", e.Code, e.Body)
}

// CatalogAPI defines the operations the storefront needs from upstream.
type CatalogAPI interface {
	Search(ctx context.Context, page, limit int) (*SearchResponse, error)
	Compare(ctx context.Context, ids []string) (*CompareResponse, error)
	ExpertRatings(ctx context.Context, id string) (*ExpertView, error)
	UpdateAffiliateLink(ctx context.Context, id, retailer, link string) error
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Signup(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Profile(ctx context.Context) (*UserProfile, error)
}

// CredentialProvider supplies the bearer token for outbound requests. An
// empty token means the request is sent without an Authorization header.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// Invalidator is implemented by providers that cache a token. Invalidate is
// called when upstream rejects that token, so the next call fetches a fresh
// one.
type Invalidator interface {
	Invalidate()
}
