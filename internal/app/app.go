// Package app wires configuration, storage, application services and the
// HTTP transport into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	appchannel "github.com/shopfront/backend/internal/application/channel"
	"github.com/shopfront/backend/internal/application/hydration"
	appidentity "github.com/shopfront/backend/internal/application/identity"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/application/populate"
	"github.com/shopfront/backend/internal/application/reqctx"
	apptax "github.com/shopfront/backend/internal/application/tax"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/scheduler"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/interfaces/graphql/schema"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// App holds the wired services of a running backend
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *persistence.Database
	Metrics *telemetry.Registry
	Tracer  *telemetry.TracerProvider
	Events  *event.InMemoryEventBus
	Tokens  *auth.TokenService

	Channels     *appchannel.ChannelService
	Sessions     *appidentity.SessionService
	Auth         *appidentity.AuthService
	Customers    *appidentity.CustomerService
	Orders       *apporder.OrderService
	ActiveOrders *apporder.ActiveOrderService
	Variants     *appcatalog.ProductVariantService
	Collections  *appcatalog.CollectionService
	Prices       *appcatalog.PriceApplicator
	Taxes        *apptax.TaxService
	Hydrator     *hydration.EntityHydrator

	// Jobs is nil unless background jobs are enabled
	Jobs *scheduler.Scheduler

	logs         *telemetry.LoggerProvider
	repos        populate.Repositories
	triggers     []*scheduler.IntervalTrigger
	sessionCache cache.SessionCache
	engine       *gin.Engine
}

// New connects to the database, migrates the schema and wires every service.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	tracer, logs, log, err := newTelemetry(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	fail := func(err error, closers ...func() error) (*App, error) {
		for _, c := range closers {
			_ = c()
		}
		_ = logs.Shutdown(context.Background())
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	metrics := telemetry.NewRegistry()

	gormLog := logger.NewGormLogger(log, logger.GormLogLevel(cfg.Log.Level), cfg.Database.SlowQuery)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return fail(err)
	}
	if err := db.DB.Use(telemetry.NewDBMetricsPlugin(metrics, cfg.Database.SlowQuery, log)); err != nil {
		return fail(fmt.Errorf("failed to install db metrics: %w", err), db.Close)
	}
	if tracer.IsEnabled() && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(tracer.Provider(), telemetry.DBTracingConfig{
			DBSystem:   dbSystem(cfg.Database.Type),
			LogFullSQL: cfg.Telemetry.DBLogFullSQL,
			SlowQuery:  cfg.Database.SlowQuery,
		}, log)
		if err := db.DB.Use(plugin); err != nil {
			return fail(fmt.Errorf("failed to install db tracing: %w", err), db.Close)
		}
	}
	if err := db.Migrate(ctx); err != nil {
		return fail(err, db.Close)
	}

	sessionCache, err := cache.NewSessionCacheFactory(cfg.Redis, cfg.Auth, cache.WithLogger(log)).CreateCache()
	if err != nil {
		return fail(err, db.Close)
	}

	a := &App{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Metrics:      metrics,
		Tracer:       tracer,
		Events:       event.NewInMemoryEventBus(log),
		Tokens:       auth.NewTokenService(cfg.Auth),
		logs:         logs,
		sessionCache: sessionCache,
	}
	if err := a.wire(); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.Events.Start(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.Jobs.Enabled {
		if err := a.startJobs(); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

// newTelemetry creates the trace and log pipelines; both are no-ops unless
// telemetry is enabled. The returned logger also feeds the log pipeline.
func newTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetry.TracerProvider, *telemetry.LoggerProvider, *zap.Logger, error) {
	tc := cfg.Telemetry
	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.TracerConfig{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		Insecure:          tc.Insecure,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
	}, log)
	if err != nil {
		return nil, nil, nil, err
	}
	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		Insecure:          tc.Insecure,
		ServiceName:       tc.ServiceName,
		Level:             logger.ParseLevel(cfg.Log.Level),
	}, log)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		return nil, nil, nil, err
	}
	return tracer, logs, logs.Bridge(log), nil
}

// dbSystem names the database the way trace backends expect
func dbSystem(dbType string) string {
	if dbType == "postgres" {
		return "postgresql"
	}
	return dbType
}

// startJobs runs background maintenance detached from the startup context;
// Close stops it.
func (a *App) startJobs() error {
	cfg := a.Config.Jobs
	jobs, err := scheduler.NewScheduler(scheduler.Config{
		MaxConcurrentJobs: cfg.Workers,
		QueueSize:         16,
		JobTimeout:        cfg.JobTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
	}, a.Logger)
	if err != nil {
		return err
	}
	jobs.Register(scheduler.SessionCleanupJob, scheduler.NewSessionCleanupExecutor(a.Sessions))

	jobMetrics, err := telemetry.NewJobMetrics(a.Metrics)
	if err != nil {
		return err
	}
	jobs.OnFinished(func(j scheduler.Job) {
		jobMetrics.Observe(j.Name, string(j.Status), j.RetryCount)
	})

	a.Jobs = jobs
	if err := jobs.Start(context.Background()); err != nil {
		return err
	}

	cleanup := scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
		JobName:    scheduler.SessionCleanupJob,
		Interval:   cfg.SessionCleanupInterval,
		RunOnStart: true,
	}, jobs, a.Logger)
	if err := cleanup.Start(context.Background()); err != nil {
		return err
	}
	a.triggers = append(a.triggers, cleanup)
	return nil
}

func (a *App) wire() error {
	cfg := a.Config
	gdb := a.DB.DB

	channelRepo := persistence.NewGormChannelRepository(gdb)
	countryRepo := persistence.NewGormCountryRepository(gdb)
	zoneRepo := persistence.NewGormZoneRepository(gdb)
	taxCategoryRepo := persistence.NewGormTaxCategoryRepository(gdb)
	taxRateRepo := persistence.NewGormTaxRateRepository(gdb)
	shippingRepo := persistence.NewGormShippingMethodRepository(gdb)
	paymentRepo := persistence.NewGormPaymentMethodRepository(gdb)
	facetRepo := persistence.NewGormFacetRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	variantRepo := persistence.NewGormVariantRepository(gdb)
	collectionRepo := persistence.NewGormCollectionRepository(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	adminRepo := persistence.NewGormAdministratorRepository(gdb)
	roleRepo := persistence.NewGormRoleRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	sessionRepo := persistence.NewGormSessionRepository(gdb)
	orderRepo := persistence.NewGormOrderRepository(gdb)

	a.repos = populate.Repositories{
		Channels:        channelRepo,
		Countries:       countryRepo,
		Zones:           zoneRepo,
		TaxCategories:   taxCategoryRepo,
		TaxRates:        taxRateRepo,
		ShippingMethods: shippingRepo,
		PaymentMethods:  paymentRepo,
		Roles:           roleRepo,
		Users:           userRepo,
		Administrators:  adminRepo,
		Facets:          facetRepo,
		Products:        productRepo,
		Collections:     collectionRepo,
	}

	authCfg := appidentity.AuthServiceConfig{
		RequireVerification: cfg.Auth.RequireVerification,
		BcryptCost:          cfg.Auth.BcryptCost,
	}
	sessionCfg := appidentity.SessionConfig{
		SessionDuration: cfg.Auth.SessionDuration,
		CacheTTL:        cfg.Auth.SessionCacheTTL,
	}

	a.Channels = appchannel.NewChannelService(channelRepo, a.Logger)
	a.Taxes = apptax.NewTaxService(zoneRepo, taxRateRepo, taxCategoryRepo, a.Logger)
	a.Prices = appcatalog.NewPriceApplicator(a.Taxes)
	a.Variants = appcatalog.NewProductVariantService(variantRepo, productRepo, a.Prices)
	a.Collections = appcatalog.NewCollectionService(collectionRepo, variantRepo, a.Prices)
	a.Sessions = appidentity.NewSessionService(sessionRepo, userRepo, a.sessionCache, sessionCfg, a.Logger)
	a.Auth = appidentity.NewAuthService(userRepo, adminRepo, a.Sessions, a.Events, authCfg, a.Logger)
	a.Customers = appidentity.NewCustomerService(customerRepo, userRepo, roleRepo, authCfg)

	calculator := apporder.NewOrderCalculator(variantRepo, shippingRepo, a.Taxes)
	limits := order.Limits{
		MaxItemsPerOrder:   cfg.Order.MaxItemsPerOrder,
		MaxQuantityPerLine: cfg.Order.MaxQuantityPerLine,
	}
	a.Orders = apporder.NewOrderService(orderRepo, variantRepo, customerRepo, calculator, a.Events, limits, a.Logger)
	a.ActiveOrders = apporder.NewActiveOrderService(a.Orders, a.Sessions, a.Logger)
	a.Hydrator = hydration.NewEntityHydrator(persistence.NewGormEntityLoader(gdb), a.Prices, a.Logger)

	eventCounter, err := telemetry.NewOrderEventCounter(a.Metrics)
	if err != nil {
		return err
	}
	a.Events.Subscribe(event.NewOrderActivityLogger(a.Logger))
	a.Events.Subscribe(eventCounter)

	services := &schema.Services{
		Sessions:        a.Sessions,
		Auth:            a.Auth,
		Customers:       a.Customers,
		Orders:          a.Orders,
		ActiveOrders:    a.ActiveOrders,
		Variants:        a.Variants,
		Collections:     a.Collections,
		Taxes:           a.Taxes,
		Countries:       countryRepo,
		Zones:           zoneRepo,
		ShippingMethods: shippingRepo,
		PaymentMethods:  paymentRepo,
	}
	return a.setupRoutes(services)
}

func (a *App) setupRoutes(services *schema.Services) error {
	cfg := a.Config

	shopSchema, err := schema.NewShopSchema(services)
	if err != nil {
		return fmt.Errorf("failed to build shop schema: %w", err)
	}
	adminSchema, err := schema.NewAdminSchema(services)
	if err != nil {
		return fmt.Errorf("failed to build admin schema: %w", err)
	}
	gqlMetrics, err := telemetry.NewGraphQLMetrics(a.Metrics)
	if err != nil {
		return err
	}

	cors := middleware.DefaultCORSConfig(cfg.Auth.AuthTokenHeader, cfg.API.ChannelTokenHeader)
	cors.AllowOrigins = []string{"*"}
	a.engine = router.NewEngine(router.EngineConfig{
		CORS:        cors,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			Enabled:        a.Tracer.IsEnabled(),
			ServiceName:    cfg.Telemetry.ServiceName,
			TracerProvider: a.Tracer.Provider(),
		},
	}, a.Logger)

	apiGroup := func(api reqctx.APIType, path string, s *handler.GraphQLHandler) *router.APIGroup {
		return router.NewAPIGroup(string(api), path).
			Use(middleware.RequestContext(
				middleware.RequestContextConfig{APIType: api, ChannelTokenHeader: cfg.API.ChannelTokenHeader},
				a.Channels, a.Sessions, a.Tokens,
			), middleware.SpanAttributes()).
			POST("", s.Serve)
	}

	shop := handler.NewGraphQLHandler(string(reqctx.APITypeShop), shopSchema, a.Tokens, gqlMetrics, cfg.Auth.AuthTokenHeader)
	admin := handler.NewGraphQLHandler(string(reqctx.APITypeAdmin), adminSchema, a.Tokens, gqlMetrics, cfg.Auth.AuthTokenHeader)

	router.NewRouter(a.engine).
		Register(apiGroup(reqctx.APITypeShop, cfg.API.ShopAPIPath, shop)).
		Register(apiGroup(reqctx.APITypeAdmin, cfg.API.AdminAPIPath, admin)).
		Register(handler.NewSystemHandler(a.DB, a.Metrics.Handler())).
		Setup()
	return nil
}

// Handler returns the HTTP handler serving both GraphQL APIs
func (a *App) Handler() http.Handler {
	return a.engine
}

// Populator returns a populator writing to this app's database
func (a *App) Populator() *populate.Populator {
	return populate.NewPopulator(a.repos, populate.Config{
		ChannelToken:       a.Config.API.DefaultChannelToken,
		CurrencyCode:       a.Config.API.CurrencyCode,
		PricesIncludeTax:   a.Config.API.PricesIncludeTax,
		SuperadminUsername: a.Config.Auth.SuperadminUsername,
		SuperadminPassword: a.Config.Auth.SuperadminPassword,
		BcryptCost:         a.Config.Auth.BcryptCost,
	}, a.Logger)
}

// Importer returns a product CSV importer writing to this app's database
func (a *App) Importer() *populate.Importer {
	return populate.NewImporter(a.repos.Facets, a.repos.Products, a.repos.TaxCategories, a.Logger)
}

// Close stops background work, releases the session cache and the database,
// and flushes telemetry
func (a *App) Close() error {
	stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
	defer cancel()
	for _, t := range a.triggers {
		_ = t.Stop(stopCtx)
	}
	if a.Jobs != nil {
		if err := a.Jobs.Stop(stopCtx); err != nil {
			a.Logger.Warn("Error stopping job scheduler", zap.Error(err))
		}
	}
	if a.Events.Running() {
		_ = a.Events.Stop(context.Background())
	}
	if err := a.sessionCache.Close(); err != nil {
		a.Logger.Warn("Error closing session cache", zap.Error(err))
	}
	dbErr := a.DB.Close()
	if err := a.logs.Shutdown(stopCtx); err != nil {
		a.Logger.Warn("Error flushing logs", zap.Error(err))
	}
	if err := a.Tracer.Shutdown(stopCtx); err != nil {
		a.Logger.Warn("Error flushing traces", zap.Error(err))
	}
	return dbErr
}
