package cmd

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/device-compare/api/openapi"
	"github.com/donaldgifford/device-compare/internal/api/handlers"
	"github.com/donaldgifford/device-compare/internal/api/middleware"
	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/store"
	"github.com/donaldgifford/device-compare/internal/upstream"
)

// routerDeps are the services the HTTP layer is built on.
type routerDeps struct {
	log      *slog.Logger
	version  string
	catalog  *catalog.Service
	accounts upstream.CatalogAPI
	store    store.Store
	quota    *quota.Limiter
	budget   handlers.UpstreamBudget
}

// newRouter builds the echo instance with middleware, probes, metrics, the
// huma API and the HTML comparison page.
func newRouter(d routerDeps) (*echo.Echo, huma.API) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		middleware.Recovery(d.log),
		middleware.RequestLog(d.log),
		middleware.Identity(),
		middleware.Metrics(),
	)

	health := handlers.NewHealthHandler(d.store, d.catalog)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cfg := huma.DefaultConfig("Device Compare API", d.version)
	cfg.Info.Description = "Search, compare and rank devices adapted from the upstream catalog."
	cfg.DocsPath = ""
	api := humaecho.New(e, cfg)

	var tokens handlers.BearerVerifier
	if d.accounts != nil {
		tokens = upstream.NewVerifiedTokens(d.accounts, 0)
	}

	var searchQuota handlers.SearchQuota
	if d.quota != nil {
		searchQuota = d.quota
	}
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(d.catalog, searchQuota, tokens))

	compare := handlers.NewCompareHandler(d.catalog)
	handlers.RegisterCompareRoutes(api, compare)
	e.GET("/compare", compare.Page)

	handlers.RegisterAffiliateRoutes(api, handlers.NewAffiliateHandler(d.catalog))
	handlers.RegisterAuthRoutes(api, handlers.NewAuthHandler(d.accounts))
	handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(d.catalog))
	handlers.RegisterNormalizeRoutes(api)

	if d.store != nil {
		handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(d.store))
	}
	if d.quota != nil {
		handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(d.quota, d.budget, tokens))
	}

	openapi.RegisterRoutes(e, api)
	return e, api
}
