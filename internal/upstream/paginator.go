package upstream

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize    = 100
	defaultMaxPages    = 20
	defaultConcurrency = 4
)

// Paginator walks every page of the upstream search endpoint.
type Paginator struct {
	api         CatalogAPI
	logger      *slog.Logger
	pageSize    int
	maxPages    int
	concurrency int
	maxRecords  int
}

// PaginatorOption configures the Paginator.
type PaginatorOption func(*Paginator)

// WithPageSize overrides the default page size.
func WithPageSize(size int) PaginatorOption {
	return func(p *Paginator) {
		if size > 0 {
			p.pageSize = size
		}
	}
}

// WithMaxPages overrides the default max pages.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithConcurrency bounds the number of pages fetched at once.
func WithConcurrency(n int) PaginatorOption {
	return func(p *Paginator) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithMaxRecords truncates the result. Zero means no limit.
func WithMaxRecords(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxRecords = n
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(l *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		p.logger = l
	}
}

// NewPaginator creates a new Paginator.
func NewPaginator(api CatalogAPI, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		api:         api,
		logger:      slog.Default(),
		pageSize:    defaultPageSize,
		maxPages:    defaultMaxPages,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// All fetches page 1 to learn the total, then the remaining pages
// concurrently. Records are returned in page order. Any page failure fails
// the whole walk.
func (p *Paginator) All(ctx context.Context) ([]CatalogRecord, error) {
	first, err := p.api.Search(ctx, 1, p.pageSize)
	if err != nil {
		return nil, fmt.Errorf("searching page 1: %w", err)
	}

	// Upstream may cap the page size below what was asked for.
	size := first.Limit
	if size <= 0 {
		size = p.pageSize
	}

	pages := 1
	if len(first.Data) > 0 && first.Total > len(first.Data) {
		pages = (first.Total + size - 1) / size
	}
	if pages > p.maxPages {
		p.logger.Warn("catalog larger than page budget",
			"total", first.Total, "pages", pages, "max_pages", p.maxPages)
		pages = p.maxPages
	}

	results := make([][]CatalogRecord, pages)
	results[0] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for page := 2; page <= pages; page++ {
		g.Go(func() error {
			resp, err := p.api.Search(gctx, page, size)
			if err != nil {
				return fmt.Errorf("searching page %d: %w", page, err)
			}
			results[page-1] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []CatalogRecord
	for _, r := range results {
		all = append(all, r...)
	}
	if p.maxRecords > 0 && len(all) > p.maxRecords {
		all = all[:p.maxRecords]
	}

	p.logger.Debug("catalog pages fetched", "pages", pages, "records", len(all))
	return all, nil
}
