// Package quota limits how many catalog searches an anonymous client may
// run before it has to log in.
package quota

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/donaldgifford/device-compare/internal/metrics"
	"github.com/donaldgifford/device-compare/internal/store"
)

// DefaultLimit is the number of anonymous searches allowed per client.
const DefaultLimit = 4

// ErrLimitReached is returned by Enforce once a client has used every
// anonymous search.
var ErrLimitReached = errors.New("search limit reached, please log in")

// ErrNoClient is returned when a request carries no usable client identity.
var ErrNoClient = errors.New("client id is required")

// Status describes a client's search allowance.
type Status struct {
	ClientID  string `json:"client_id"`
	Count     int    `json:"count"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Reached   bool   `json:"reached"`
}

// Limiter tracks anonymous search counts in the store.
type Limiter struct {
	store store.Store
	limit int
}

// New creates a Limiter. A non-positive limit falls back to DefaultLimit.
func New(s store.Store, limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Limiter{store: s, limit: limit}
}

// Limit returns the configured allowance.
func (l *Limiter) Limit() int {
	return l.limit
}

// Check reports the client's current allowance without consuming any.
func (l *Limiter) Check(ctx context.Context, client string) (Status, error) {
	if client == "" {
		return Status{}, ErrNoClient
	}
	n, err := l.store.GetSearchCount(ctx, client)
	if err != nil {
		return Status{}, fmt.Errorf("checking search quota: %w", err)
	}
	return l.status(client, n), nil
}

// Enforce returns ErrLimitReached when client has no searches left.
func (l *Limiter) Enforce(ctx context.Context, client string) (Status, error) {
	st, err := l.Check(ctx, client)
	if err != nil {
		return st, err
	}
	if st.Reached {
		metrics.QuotaRejectionsTotal.Inc()
		return st, ErrLimitReached
	}
	return st, nil
}

// Record counts one successful search for client.
func (l *Limiter) Record(ctx context.Context, client string) (Status, error) {
	if client == "" {
		return Status{}, ErrNoClient
	}
	n, err := l.store.IncrementSearchCount(ctx, client)
	if err != nil {
		return Status{}, fmt.Errorf("recording search: %w", err)
	}
	return l.status(client, n), nil
}

// Reset clears the client's count, e.g. after it logs in.
func (l *Limiter) Reset(ctx context.Context, client string) error {
	if client == "" {
		return ErrNoClient
	}
	if err := l.store.ResetSearchCount(ctx, client); err != nil {
		return fmt.Errorf("resetting search quota: %w", err)
	}
	return nil
}

func (l *Limiter) status(client string, n int) Status {
	return Status{
		ClientID:  client,
		Count:     n,
		Limit:     l.limit,
		Remaining: max(l.limit-n, 0),
		Reached:   n >= l.limit,
	}
}

// ClientID picks the identity a request is counted under: the explicit
// header value when present, otherwise the host part of the remote address.
func ClientID(header, remoteAddr string) string {
	if id := strings.TrimSpace(header); id != "" {
		return id
	}
	remoteAddr = strings.TrimSpace(remoteAddr)
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

type clientKey struct{}

// WithClient stores the resolved client identity on ctx.
func WithClient(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientKey{}, id)
}

// ClientFromContext returns the identity stored by WithClient, or "".
func ClientFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientKey{}).(string)
	return id
}
