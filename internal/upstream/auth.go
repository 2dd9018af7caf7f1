package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenTTL = 12 * time.Hour
	refreshBuffer   = 60 * time.Second
)

// StaticCredentials is a fixed service token.
type StaticCredentials string

// Token returns the configured token.
func (s StaticCredentials) Token(context.Context) (string, error) {
	return string(s), nil
}

type bearerKey struct{}

// WithBearer attaches an end user's bearer token to ctx so that
// RequestCredentials forwards it upstream.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerFromContext returns the token stored by WithBearer.
func BearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerKey{}).(string)
	return token, ok && token != ""
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequestCredentials forwards the bearer token carried on the request
// context.
type RequestCredentials struct{}

// Token returns the context bearer or "".
func (RequestCredentials) Token(ctx context.Context) (string, error) {
	token, _ := BearerFromContext(ctx)
	return token, nil
}

// ChainCredentials tries each provider in order; the first non-empty token
// wins.
type ChainCredentials []CredentialProvider

// Token returns the first non-empty token, or "" when none is available.
func (c ChainCredentials) Token(ctx context.Context) (string, error) {
	token, _, err := resolveToken(ctx, c)
	return token, err
}

// resolveToken returns the token p yields along with the provider that
// issued it. Chains are walked so the issuer is a leaf provider.
func resolveToken(ctx context.Context, p CredentialProvider) (string, CredentialProvider, error) {
	chain, ok := p.(ChainCredentials)
	if !ok {
		token, err := p.Token(ctx)
		if err != nil || token == "" {
			return "", nil, err
		}
		return token, p, nil
	}

	for _, sub := range chain {
		if sub == nil {
			continue
		}
		token, from, err := resolveToken(ctx, sub)
		if err != nil {
			return "", nil, err
		}
		if token != "" {
			return token, from, nil
		}
	}
	return "", nil, nil
}

// LoginCredentials obtains a service token by logging in with a service
// account. Upstream does not report token lifetimes, so the token is cached
// for a fixed TTL and refreshed shortly before it lapses. Thread-safe via
// mutex.
type LoginCredentials struct {
	loginURL string
	creds    Credentials
	client   *http.Client
	ttl      time.Duration

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// LoginOption configures LoginCredentials.
type LoginOption func(*LoginCredentials)

// WithLoginHTTPClient overrides the default HTTP client.
func WithLoginHTTPClient(c *http.Client) LoginOption {
	return func(l *LoginCredentials) {
		l.client = c
	}
}

// WithTokenTTL overrides how long a service token is reused.
func WithTokenTTL(d time.Duration) LoginOption {
	return func(l *LoginCredentials) {
		if d > 0 {
			l.ttl = d
		}
	}
}

// WithLoginNowFunc overrides the time function for testing.
func WithLoginNowFunc(f func() time.Time) LoginOption {
	return func(l *LoginCredentials) {
		l.nowFunc = f
	}
}

// NewLoginCredentials creates a provider that logs in against baseURL.
func NewLoginCredentials(baseURL, email, password string, opts ...LoginOption) *LoginCredentials {
	l := &LoginCredentials{
		loginURL: strings.TrimRight(baseURL, "/") + "/auth/login",
		creds:    Credentials{Email: email, Password: password},
		client:   &http.Client{Timeout: 10 * time.Second},
		ttl:      defaultTokenTTL,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Token returns a cached service token, logging in again when needed.
func (l *LoginCredentials) Token(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token != "" && l.nowFunc().Before(l.expiry.Add(-refreshBuffer)) {
		return l.token, nil
	}

	return l.loginLocked(ctx)
}

// Invalidate drops the cached token. HTTPClient calls it when upstream
// answers 401 to a request carrying the token.
func (l *LoginCredentials) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token = ""
}

func (l *LoginCredentials) loginLocked(ctx context.Context) (string, error) {
	payload, err := json.Marshal(l.creds)
	if err != nil {
		return "", fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.loginURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("service login failed: %w", statusErr(resp.StatusCode, body))
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("parsing login response: %w", err)
	}
	if auth.BearerToken() == "" {
		return "", errors.New("service login returned no token")
	}

	l.token = auth.BearerToken()
	l.expiry = l.nowFunc().Add(l.ttl)

	return l.token, nil
}

const (
	defaultVerifyTTL = 5 * time.Minute
	maxVerified      = 4096
)

// ProfileAPI is the slice of CatalogAPI that VerifiedTokens needs.
type ProfileAPI interface {
	Profile(ctx context.Context) (*UserProfile, error)
}

// VerifiedTokens confirms end-user bearer tokens against the profile
// endpoint and remembers accepted tokens for a TTL. Rejected tokens are not
// cached.
type VerifiedTokens struct {
	api ProfileAPI
	ttl time.Duration

	mu      sync.Mutex
	until   map[string]time.Time
	nowFunc func() time.Time
}

// VerifyOption configures VerifiedTokens.
type VerifyOption func(*VerifiedTokens)

// WithVerifyNowFunc overrides the time function for testing.
func WithVerifyNowFunc(f func() time.Time) VerifyOption {
	return func(v *VerifiedTokens) {
		v.nowFunc = f
	}
}

// NewVerifiedTokens creates a verifier. A non-positive ttl uses five
// minutes.
func NewVerifiedTokens(api ProfileAPI, ttl time.Duration, opts ...VerifyOption) *VerifiedTokens {
	if ttl <= 0 {
		ttl = defaultVerifyTTL
	}
	v := &VerifiedTokens{
		api:     api,
		ttl:     ttl,
		until:   make(map[string]time.Time),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify returns nil when upstream accepts token. An empty token is
// ErrUnauthorized.
func (v *VerifiedTokens) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	v.mu.Lock()
	exp, ok := v.until[token]
	v.mu.Unlock()
	if ok && v.nowFunc().Before(exp) {
		return nil
	}

	if _, err := v.api.Profile(WithBearer(ctx, token)); err != nil {
		return fmt.Errorf("verifying bearer token: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.nowFunc()
	if len(v.until) >= maxVerified {
		for t, e := range v.until {
			if !now.Before(e) {
				delete(v.until, t)
			}
		}
	}
	if len(v.until) < maxVerified {
		v.until[token] = now.Add(v.ttl)
	}
	return nil
}
