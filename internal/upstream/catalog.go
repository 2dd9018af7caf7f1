package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/device-compare/internal/metrics"
)

const (
	defaultBaseURL   = "https://compare.akshayy.site"
	maxResponseBytes = 16 << 20
	maxErrorBody     = 512
	tracerName       = "github.com/donaldgifford/device-compare/internal/upstream"
)

// Endpoint labels used for metrics and span names.
const (
	EndpointSearch        = "search"
	EndpointCompare       = "compare"
	EndpointExpertRatings = "expert_ratings"
	EndpointAffiliate     = "affiliate"
	EndpointLogin         = "login"
	EndpointSignup        = "signup"
	EndpointProfile       = "profile"
)

// HTTPClient implements CatalogAPI over the upstream REST API.
type HTTPClient struct {
	baseURL     string
	client      *http.Client
	credentials CredentialProvider
	rateLimiter *RateLimiter
	tracer      trace.Tracer
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the default upstream base URL.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithCredentials sets the provider consulted for every authenticated call.
func WithCredentials(p CredentialProvider) Option {
	return func(c *HTTPClient) {
		c.credentials = p
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// call limits. When set, every call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *HTTPClient) {
		c.rateLimiter = r
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *HTTPClient) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// NewHTTPClient creates a new upstream catalog client.
func NewHTTPClient(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:     defaultBaseURL,
		client:      &http.Client{Timeout: 30 * time.Second},
		credentials: RequestCredentials{},
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimiter returns the configured limiter, or nil.
func (c *HTTPClient) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Search fetches one page of catalog records. Pages are 1-based.
func (c *HTTPClient) Search(ctx context.Context, page, limit int) (*SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var resp SearchResponse
	err := c.do(ctx, call{
		endpoint: EndpointSearch,
		method:   http.MethodGet,
		path:     "/phones/search",
		query: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(limit)},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compare fetches compare records for ids, in upstream order.
func (c *HTTPClient) Compare(ctx context.Context, ids []string) (*CompareResponse, error) {
	if len(ids) == 0 {
		return &CompareResponse{}, nil
	}

	var resp CompareResponse
	err := c.do(ctx, call{
		endpoint: EndpointCompare,
		method:   http.MethodGet,
		path:     "/phones/compare",
		query:    url.Values{"ids": {strings.Join(ids, ",")}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExpertRatings fetches the expert review aggregate for one device. Upstream
// answers either with the view itself or wrapped in an expert_view field.
func (c *HTTPClient) ExpertRatings(ctx context.Context, id string) (*ExpertView, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		endpoint: EndpointExpertRatings,
		method:   http.MethodGet,
		path:     "/company_rate/" + url.PathEscape(id),
	}, &raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return &ExpertView{}, nil
	}

	var env struct {
		ExpertView *ExpertView `json:"expert_view"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.ExpertView != nil {
		return env.ExpertView, nil
	}

	var view ExpertView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", EndpointExpertRatings, err)
	}
	return &view, nil
}

type affiliateRequest struct {
	Retailer string `json:"retailer"`
	URL      string `json:"url"`
}

// UpdateAffiliateLink stores a retailer link for a device.
func (c *HTTPClient) UpdateAffiliateLink(ctx context.Context, id, retailer, link string) error {
	return c.do(ctx, call{
		endpoint: EndpointAffiliate,
		method:   http.MethodPut,
		path:     "/phones/" + url.PathEscape(id) + "/affiliate",
		body:     affiliateRequest{Retailer: retailer, URL: link},
	}, nil)
}

// Login exchanges credentials for a bearer token.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, EndpointLogin, "/auth/login", creds)
}

// Signup registers a user and returns a bearer token.
func (c *HTTPClient) Signup(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, EndpointSignup, "/auth/signup", creds)
}

func (c *HTTPClient) authenticate(
	ctx context.Context,
	endpoint, path string,
	creds Credentials,
) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, call{
		endpoint:  endpoint,
		method:    http.MethodPost,
		path:      path,
		body:      creds,
		anonymous: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile returns the profile for whichever token the credential provider
// yields.
func (c *HTTPClient) Profile(ctx context.Context) (*UserProfile, error) {
	var resp UserProfile
	err := c.do(ctx, call{
		endpoint: EndpointProfile,
		method:   http.MethodGet,
		path:     "/auth/profile",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

type call struct {
	endpoint  string
	method    string
	path      string
	query     url.Values
	body      any
	anonymous bool
}

func (c *HTTPClient) do(ctx context.Context, cl call, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "upstream."+cl.endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.endpoint", cl.endpoint),
			attribute.String("http.request.method", cl.method),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	code, body, issuer, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if inv, ok := issuer.(Invalidator); ok && code == http.StatusUnauthorized {
		inv.Invalidate()
		span.AddEvent("credentials invalidated")
		if code, body, _, err = c.send(ctx, cl); err != nil {
			return err
		}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", code))

	if code < 200 || code > 299 {
		return fmt.Errorf("%s: %w", cl.endpoint, statusErr(code, body))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", cl.endpoint, err)
	}
	return nil
}

// send performs one rate-limited round trip and returns the status, the body
// and the provider that issued the bearer token, if any.
func (c *HTTPClient) send(ctx context.Context, cl call) (int, []byte, CredentialProvider, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.UpstreamDailyLimitHits.Inc()
			}
			return 0, nil, nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.UpstreamDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	req, issuer, err := c.newRequest(ctx, cl)
	if err != nil {
		return 0, nil, nil, err
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(cl.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(cl.endpoint).Inc()
		return 0, nil, nil, fmt.Errorf("executing %s request: %w", cl.endpoint, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(cl.endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("reading %s response: %w", cl.endpoint, err)
	}
	return resp.StatusCode, body, issuer, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, cl call) (*http.Request, CredentialProvider, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader = http.NoBody
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding %s request: %w", cl.endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if cl.anonymous || c.credentials == nil {
		return req, nil, nil
	}

	token, issuer, err := resolveToken(ctx, c.credentials)
	if err != nil {
		return nil, nil, fmt.Errorf("getting auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, issuer, nil
}

func statusErr(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return &StatusError{Code: code, Body: text}
	}
}
