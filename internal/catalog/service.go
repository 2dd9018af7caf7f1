// Package catalog serves the adapted product directory. It loads every
// upstream catalog page, keeps an in-memory snapshot, persists the raw
// records for stale fallback, and answers search, top-list, detail and
// comparison queries from it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/device-compare/internal/metrics"
	"github.com/donaldgifford/device-compare/internal/store"
	"github.com/donaldgifford/device-compare/internal/upstream"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// JobRefresh is the job_runs name for directory reloads.
const JobRefresh = "catalog_refresh"

const (
	defaultTTL              = 15 * time.Minute
	defaultCompetitorLimit  = 3
	defaultCompetitorWindow = 20000
	defaultCompareMax       = 5
	defaultListLimit        = 10
	defaultLoadTimeout      = 2 * time.Minute

	directoryKey = "directory"

	sourceUpstream = "catalog"
	sourceStored   = "stored"
	sourceCompare  = "compare"
)

var (
	// ErrNotFound is returned when no product has the requested ID.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidCompare is returned for an empty, oversized or blank ID list.
	ErrInvalidCompare = errors.New("invalid compare request")

	// ErrInvalidAffiliate is returned when an affiliate update fails validation.
	ErrInvalidAffiliate = errors.New("invalid affiliate link")

	// ErrStale is returned by Refresh when upstream failed and the stored
	// snapshot is being served instead.
	ErrStale = errors.New("upstream unavailable, serving stored catalog")
)

// SearchQuery filters the directory.
type SearchQuery struct {
	Query    string
	PriceMax int64
	Limit    int
}

// SearchResult is a search hit list plus the comparison set built around
// the best match.
type SearchResult struct {
	Query       string           `json:"query"`
	Total       int              `json:"total"`
	Matches     []domain.Product `json:"matches"`
	Main        *domain.Product  `json:"main,omitempty"`
	Competitors []domain.Product `json:"competitors"`
	Comparison  []domain.Product `json:"comparison"`
}

// CompareResult is the side-by-side view for a set of IDs.
type CompareResult struct {
	WinnerModel string           `json:"winnerModel"`
	Products    []domain.Product `json:"products"`
}

// SnapshotInfo describes the directory currently held in memory.
type SnapshotInfo struct {
	Products int       `json:"products"`
	LoadedAt time.Time `json:"loaded_at"`
	Stale    bool      `json:"stale"`
}

type snapshot struct {
	records  []upstream.CatalogRecord
	products []domain.Product
	loadedAt time.Time
	stale    bool
}

// Service answers product queries from a cached directory snapshot.
type Service struct {
	api   upstream.CatalogAPI
	store store.Store
	log   *slog.Logger

	ttl              time.Duration
	pagerOpts        []upstream.PaginatorOption
	competitorLimit  int
	competitorWindow int64
	compareMax       int
	loadTimeout      time.Duration
	nowFunc          func() time.Time

	mu    sync.RWMutex
	snap  *snapshot
	group singleflight.Group
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithTTL sets how long a loaded directory is served before reloading.
func WithTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithPaginatorOptions configures the directory page walk.
func WithPaginatorOptions(opts ...upstream.PaginatorOption) Option {
	return func(s *Service) {
		s.pagerOpts = append(s.pagerOpts, opts...)
	}
}

// WithCompetitors sets how many competitors a search returns and how far
// below the main product's price they may be.
func WithCompetitors(limit int, window int64) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.competitorLimit = limit
		}
		if window >= 0 {
			s.competitorWindow = window
		}
	}
}

// WithCompareMax sets the maximum number of products in one comparison.
func WithCompareMax(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.compareMax = n
		}
	}
}

// WithLoadTimeout bounds a single directory load. The load is shared by
// every caller waiting on it, so it runs detached from their contexts.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Service) {
		s.nowFunc = f
	}
}

// NewService creates a catalog service. The store may be nil, in which case
// records are not persisted and there is no stale fallback.
func NewService(api upstream.CatalogAPI, st store.Store, opts ...Option) *Service {
	s := &Service{
		api:              api,
		store:            st,
		log:              slog.Default(),
		ttl:              defaultTTL,
		competitorLimit:  defaultCompetitorLimit,
		competitorWindow: defaultCompetitorWindow,
		compareMax:       defaultCompareMax,
		loadTimeout:      defaultLoadTimeout,
		nowFunc:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompareMax returns the largest accepted comparison set.
func (s *Service) CompareMax() int {
	return s.compareMax
}

// Directory returns every adapted product in upstream order.
func (s *Service) Directory(ctx context.Context) ([]domain.Product, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.products), nil
}

// Info describes the snapshot in memory. ok is false before the first load.
func (s *Service) Info() (info SnapshotInfo, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return SnapshotInfo{}, false
	}
	return SnapshotInfo{
		Products: len(s.snap.products),
		LoadedAt: s.snap.loadedAt,
		Stale:    s.snap.stale,
	}, true
}

// Invalidate drops the snapshot so the next query reloads.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
}

// Search filters the directory by name and price ceiling. The first match
// becomes the main product; competitors are same-category products priced
// within the competitor window at or below it.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	all, err := s.Directory(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Query))
	var matches []domain.Product
	for _, p := range all {
		if !nameContains(p, needle) {
			continue
		}
		if q.PriceMax > 0 && p.Price > q.PriceMax {
			continue
		}
		matches = append(matches, p)
	}

	res := &SearchResult{
		Query:       q.Query,
		Total:       len(matches),
		Matches:     []domain.Product{},
		Competitors: []domain.Product{},
		Comparison:  []domain.Product{},
	}
	if len(matches) == 0 {
		return res, nil
	}

	lead := matches[0]
	res.Main = &lead
	res.Competitors = s.competitors(all, lead)
	res.Comparison = append([]domain.Product{lead}, res.Competitors...)

	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	res.Matches = matches

	return res, nil
}

func (s *Service) competitors(all []domain.Product, lead domain.Product) []domain.Product {
	out := []domain.Product{}
	if s.competitorLimit == 0 {
		return out
	}
	floor := lead.Price - s.competitorWindow
	for _, p := range all {
		if p.ID == lead.ID || p.Category != lead.Category {
			continue
		}
		if p.Price < floor || p.Price > lead.Price {
			continue
		}
		out = append(out, p)
		if len(out) == s.competitorLimit {
			break
		}
	}
	return out
}

// Suggest returns directory products whose names contain query, skipping
// any ID in exclude.
func (s *Service) Suggest(ctx context.Context, query string, exclude []string, limit int) ([]domain.Product, error) {
	all, err := s.Directory(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := []domain.Product{}
	for _, p := range all {
		if slices.Contains(exclude, p.ID) || !nameContains(p, needle) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Top returns the highest scored products. Ties keep directory order.
func (s *Service) Top(ctx context.Context, limit int) ([]domain.Product, error) {
	all, err := s.Directory(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	slices.SortStableFunc(all, func(a, b domain.Product) int {
		return b.BeebomScore - a.BeebomScore
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Product fetches the detail view for one ID and attaches expert reviews
// when upstream has them.
func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	resp, err := s.api.Compare(ctx, []string{id})
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	if len(resp.Phones) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	p, err := upstream.CompareToProduct(&resp.Phones[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	metrics.ProductsAdaptedTotal.WithLabelValues(sourceCompare).Inc()

	if p.ExpertData == nil {
		view, err := s.api.ExpertRatings(ctx, id)
		if err != nil {
			s.log.Warn("expert ratings unavailable", "id", id, "error", err)
		} else if data := upstream.ProcessExpertView(view); data != nil {
			p = upstream.AttachExpert(p, data)
			metrics.ExpertPanelsTotal.Inc()
		}
	}

	return &p, nil
}

// Compare adapts the upstream comparison for ids. Blank and repeated IDs
// are dropped; what remains must be between one and CompareMax IDs.
func (s *Service) Compare(ctx context.Context, ids []string) (*CompareResult, error) {
	clean := uniqueIDs(ids)
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: at least one id is required", ErrInvalidCompare)
	}
	if len(clean) > s.compareMax {
		return nil, fmt.Errorf("%w: at most %d ids, got %d", ErrInvalidCompare, s.compareMax, len(clean))
	}

	resp, err := s.api.Compare(ctx, clean)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, fmt.Errorf("comparing %s: %w", strings.Join(clean, ","), ErrNotFound)
		}
		return nil, fmt.Errorf("comparing products: %w", err)
	}

	products, err := upstream.CompareToProducts(resp.Phones)
	if err != nil {
		return nil, fmt.Errorf("adapting comparison: %w", err)
	}
	metrics.ProductsAdaptedTotal.WithLabelValues(sourceCompare).Add(float64(len(products)))

	return &CompareResult{WinnerModel: resp.WinnerModel, Products: products}, nil
}

// MissingAffiliateLinks lists catalog entries that still need a usable
// link for every partner retailer.
func (s *Service) MissingAffiliateLinks(ctx context.Context) ([]domain.AffiliateStatus, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := []domain.AffiliateStatus{}
	for i := range snap.records {
		rec := &snap.records[i]
		st := domain.AffiliateStatus{
			ID:       rec.ID,
			Name:     rec.ModelName,
			Brand:    rec.Brand,
			Amazon:   strings.TrimSpace(rec.AffiliateLinks["amazon"]),
			Flipkart: strings.TrimSpace(rec.AffiliateLinks["flipkart"]),
		}
		if !st.Complete() {
			out = append(out, st)
		}
	}
	return out, nil
}

// UpdateAffiliateLink stores a partner link upstream and drops the snapshot
// so the change shows up on the next query.
func (s *Service) UpdateAffiliateLink(ctx context.Context, id, retailer, link string) error {
	id = strings.TrimSpace(id)
	link = strings.TrimSpace(link)

	var errs []error
	if id == "" {
		errs = append(errs, errors.New("id is required"))
	}
	r, ok := upstream.LookupRetailer(retailer)
	if !ok {
		errs = append(errs, fmt.Errorf("unknown retailer %q", retailer))
	}
	switch {
	case link == "":
		errs = append(errs, errors.New("url is required"))
	case !strings.HasPrefix(strings.ToLower(link), "http"):
		errs = append(errs, fmt.Errorf("url %q must start with http", link))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAffiliate, errors.Join(errs...))
	}

	if err := s.api.UpdateAffiliateLink(ctx, id, r.Key, link); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("updating affiliate link: %w", err)
	}

	s.log.Info("affiliate link updated", "id", id, "retailer", r.Key)
	s.Invalidate()
	return nil
}

// Refresh reloads the directory from upstream and records the run in
// job_runs. It returns the number of products loaded.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	runID := s.startRun(ctx)

	snap, err := s.shared(ctx, false)

	var n int
	if err == nil {
		n = len(snap.products)
		if snap.stale {
			err = ErrStale
		}
	}

	s.completeRun(ctx, runID, n, err)
	return n, err
}

func (s *Service) startRun(ctx context.Context) string {
	if s.store == nil {
		return ""
	}
	id, err := s.store.InsertJobRun(ctx, JobRefresh)
	if err != nil {
		s.log.Warn("recording job start", "job", JobRefresh, "error", err)
		return ""
	}
	return id
}

func (s *Service) completeRun(ctx context.Context, id string, n int, runErr error) {
	if s.store == nil || id == "" {
		return
	}
	status, errText := domain.JobStatusSucceeded, ""
	if runErr != nil {
		status, errText = domain.JobStatusFailed, runErr.Error()
	}
	if err := s.store.CompleteJobRun(context.WithoutCancel(ctx), id, status, errText, n); err != nil {
		s.log.Warn("recording job completion", "job", JobRefresh, "error", err)
	}
}

func (s *Service) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil || s.nowFunc().Sub(s.snap.loadedAt) >= s.ttl {
		return nil
	}
	return s.snap
}

func (s *Service) snapshot(ctx context.Context) (*snapshot, error) {
	if snap := s.current(); snap != nil {
		return snap, nil
	}

	return s.shared(ctx, true)
}

// shared joins the in-flight directory load or starts one. The load itself
// is detached from ctx and bounded by loadTimeout; ctx only decides how long
// this caller waits for it.
func (s *Service) shared(ctx context.Context, reuse bool) (*snapshot, error) {
	ch := s.group.DoChan(directoryKey, func() (any, error) {
		if reuse {
			if snap := s.current(); snap != nil {
				return snap, nil
			}
		}
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return s.load(lctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	start := time.Now()
	recs, err := upstream.NewPaginator(s.api, s.pagerOpts...).All(ctx)
	metrics.CatalogRefreshDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CatalogRefreshErrorsTotal.Inc()

		stored := s.loadStored(ctx)
		if len(stored) == 0 {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}

		s.log.Error("upstream catalog unavailable, serving stored records",
			"error", err, "records", len(stored))
		metrics.CatalogStaleServesTotal.Inc()

		snap := s.build(stored, sourceStored)
		snap.stale = true
		s.set(snap)
		return snap, nil
	}

	s.persist(ctx, recs)

	snap := s.build(recs, sourceUpstream)
	s.set(snap)
	s.log.Info("catalog loaded", "records", len(recs), "products", len(snap.products))
	return snap, nil
}

func (s *Service) set(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// build adapts records, skipping any without an identity.
func (s *Service) build(recs []upstream.CatalogRecord, source string) *snapshot {
	snap := &snapshot{
		records:  make([]upstream.CatalogRecord, 0, len(recs)),
		products: make([]domain.Product, 0, len(recs)),
		loadedAt: s.nowFunc(),
	}

	for i := range recs {
		p, err := upstream.ToProduct(&recs[i])
		if err != nil {
			s.log.Warn("skipping catalog record", "index", i, "error", err)
			continue
		}
		if p.PriceComparison[0].Retailer == upstream.MarketPrice {
			metrics.FallbackPriceEntriesTotal.Inc()
		}
		if p.ExpertData != nil {
			metrics.ExpertPanelsTotal.Inc()
		}
		snap.records = append(snap.records, recs[i])
		snap.products = append(snap.products, p)
	}

	metrics.ProductsAdaptedTotal.WithLabelValues(source).Add(float64(len(snap.products)))
	metrics.CatalogProducts.Set(float64(len(snap.products)))
	return snap
}

func (s *Service) persist(ctx context.Context, recs []upstream.CatalogRecord) {
	if s.store == nil {
		return
	}

	now := s.nowFunc()
	rows := make([]store.CatalogRow, 0, len(recs))
	for i := range recs {
		if strings.TrimSpace(recs[i].ID) == "" {
			continue
		}
		payload, err := json.Marshal(&recs[i])
		if err != nil {
			s.log.Warn("encoding catalog record", "id", recs[i].ID, "error", err)
			continue
		}
		rows = append(rows, store.CatalogRow{ID: recs[i].ID, Payload: payload, FetchedAt: now})
	}

	if _, err := s.store.ReplaceCatalog(ctx, rows); err != nil {
		s.log.Warn("persisting catalog records", "error", err)
	}
}

func (s *Service) loadStored(ctx context.Context) []upstream.CatalogRecord {
	if s.store == nil {
		return nil
	}

	rows, err := s.store.ListCatalog(ctx)
	if err != nil {
		s.log.Warn("reading stored catalog", "error", err)
		return nil
	}

	recs := make([]upstream.CatalogRecord, 0, len(rows))
	for _, r := range rows {
		var rec upstream.CatalogRecord
		if err := json.Unmarshal(r.Payload, &rec); err != nil {
			s.log.Warn("decoding stored catalog record", "id", r.ID, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

func nameContains(p domain.Product, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(p.Name), needle)
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		for part := range strings.SplitSeq(id, ",") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}
