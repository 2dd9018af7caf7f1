package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/config"
	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/store"
	"github.com/donaldgifford/device-compare/internal/telemetry"
	"github.com/donaldgifford/device-compare/internal/upstream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

// services is everything a command needs to talk to upstream and the
// database.
type services struct {
	store    *store.PostgresStore
	upstream *upstream.HTTPClient
	catalog  *catalog.Service
	shutdown telemetry.ShutdownFunc
}

func (s *services) close(ctx context.Context, log *slog.Logger) {
	if err := s.shutdown(ctx); err != nil {
		log.Warn("flushing telemetry", "error", err)
	}
	s.store.Close()
}

// buildServices connects the store, sets up telemetry and constructs the
// upstream client and catalog service.
func buildServices(ctx context.Context, cfg *config.Config, log *slog.Logger) (*services, error) {
	providers, shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		MetricInterval: cfg.Telemetry.MetricInterval,
		Gatherer:       prometheus.DefaultGatherer,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), int32(cfg.Database.PoolSize)) //nolint:gosec // pool size is small
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	up := cfg.Upstream
	httpClient := &http.Client{
		Timeout:   up.Timeout,
		Transport: providers.HTTPTransport(nil),
	}

	var service upstream.CredentialProvider
	switch {
	case up.ServiceToken != "":
		service = upstream.StaticCredentials(up.ServiceToken)
	case up.Login.Enabled():
		service = upstream.NewLoginCredentials(up.BaseURL, up.Login.Email, up.Login.Password,
			upstream.WithTokenTTL(up.Login.TokenTTL),
			upstream.WithLoginHTTPClient(httpClient),
		)
	}

	client := upstream.NewHTTPClient(
		upstream.WithBaseURL(up.BaseURL),
		upstream.WithHTTPClient(httpClient),
		upstream.WithCredentials(upstream.ChainCredentials{upstream.RequestCredentials{}, service}),
		upstream.WithRateLimiter(upstream.NewRateLimiter(up.RateLimit.PerSecond, up.RateLimit.Burst, up.RateLimit.DailyLimit)),
		upstream.WithTracerProvider(providers.Tracer),
	)

	svc := catalog.NewService(client, pg,
		catalog.WithLogger(log),
		catalog.WithTTL(cfg.Catalog.TTL),
		catalog.WithCompetitors(cfg.Catalog.CompetitorLimit, cfg.Catalog.CompetitorWindow),
		catalog.WithCompareMax(cfg.Catalog.CompareMax),
		catalog.WithPaginatorOptions(
			upstream.WithPageSize(up.PageSize),
			upstream.WithMaxPages(up.MaxPages),
			upstream.WithMaxRecords(up.MaxRecords),
			upstream.WithConcurrency(up.Concurrency),
			upstream.WithPaginatorLogger(log),
		),
	)

	return &services{store: pg, upstream: client, catalog: svc, shutdown: shutdown}, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, err := buildServices(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := svcs.store.Migrate(ctx); err != nil {
		svcs.close(context.Background(), log)
		return fmt.Errorf("running migrations: %w", err)
	}

	sched, err := catalog.NewScheduler(svcs.catalog, svcs.store, cfg.Schedule.RefreshInterval, log)
	if err != nil {
		svcs.close(context.Background(), log)
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e, _ := newRouter(routerDeps{
		log:      log,
		version:  Version,
		catalog:  svcs.catalog,
		accounts: svcs.upstream,
		store:    svcs.store,
		quota:    quota.New(svcs.store, cfg.Quota.SearchLimit),
		budget:   svcs.upstream.RateLimiter(),
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	sched.Start(ctx)

	addr := cfg.Server.Addr()
	log.Info("starting server", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case serveErr = <-errCh:
		log.Error("server error", "error", serveErr)
	}

	<-sched.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, fmt.Errorf("shutting down server: %w", err))
	}
	svcs.close(shutdownCtx, log)

	log.Info("server stopped")
	return serveErr
}
