// Package app wires the site server together.
package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maftown/spitbraai/internal/api"
	"github.com/maftown/spitbraai/internal/assets"
	"github.com/maftown/spitbraai/internal/content"
	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/internal/domain/contact"
	"github.com/maftown/spitbraai/internal/domain/order"
	"github.com/maftown/spitbraai/internal/handler"
	"github.com/maftown/spitbraai/internal/session"
	"github.com/maftown/spitbraai/internal/storage/memory"
	"github.com/maftown/spitbraai/internal/storage/postgres"
	"github.com/maftown/spitbraai/pkg/health"
	"github.com/maftown/spitbraai/pkg/httpmiddleware"
)

// catalogSource is the item repository and pricing tiers the site serves.
type catalogSource struct {
	items catalog.Repository
	tiers map[catalog.PrepMode][]catalog.Tier
}

// openCatalog serves the catalog document from memory, or from PostgreSQL
// when a database is configured. An empty database is seeded from doc.
func openCatalog(ctx context.Context, cfg *Config, doc *catalog.Document, hc *health.Health) (*catalogSource, func(), error) {
	lg := zctx.From(ctx)
	if cfg.DatabaseURL == "" {
		lg.Info("Serving catalog from memory", zap.Int("items", len(doc.Items)))
		return &catalogSource{items: catalog.NewStatic(doc), tiers: doc.Tiers}, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "run migrations")
	}
	hc.Add(health.Readiness, "postgres", 5*time.Second, health.PingCheck(pool))

	repo := postgres.NewCatalogRepository(pool)
	items, err := repo.List(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "list catalog")
	}
	if len(items) == 0 {
		lg.Info("Seeding empty catalog", zap.Int("items", len(doc.Items)))
		if err := repo.Replace(ctx, doc); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "seed catalog")
		}
	}
	tiers, err := repo.Tiers(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "load tiers")
	}
	return &catalogSource{items: repo, tiers: tiers}, pool.Close, nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))
	ctx = zctx.Base(ctx, lg)

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		return errors.Wrap(err, "load site content")
	}
	doc, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	healthSvc := health.New()
	healthSvc.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))

	src, closeCatalog, err := openCatalog(ctx, cfg, doc, healthSvc)
	if err != nil {
		return err
	}
	defer closeCatalog()

	store := memory.NewSessionStore(memory.SessionStoreConfig{
		TTL:         cfg.Session.TTL,
		MaxSessions: cfg.Session.MaxSessions,
	})
	healthSvc.Add(health.Readiness, "sessions", time.Second,
		health.CapacityCheck(store.Len, cfg.Session.MaxSessions, 0.95))

	// Domain services.
	mp := m.MeterProvider()
	carts, err := cart.NewService(src.items, store, mp)
	if err != nil {
		return errors.Wrap(err, "create cart service")
	}
	orders, err := order.NewService(carts, order.Config{
		LinkBase: cfg.Messaging.LinkBase,
		Number:   cfg.Messaging.Number,
		Template: order.DefaultTemplate(site.Business),
	}, m.TracerProvider(), mp)
	if err != nil {
		return errors.Wrap(err, "create order service")
	}
	inquiries, err := contact.NewService(mp)
	if err != nil {
		return errors.Wrap(err, "create contact service")
	}

	// HTTP handlers.
	cookies := session.NewCookies(session.Config{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	})
	pages, err := handler.New(handler.Options{
		Site:      site,
		Items:     src.items,
		Tiers:     src.tiers,
		Carts:     carts,
		Orders:    orders,
		Inquiries: inquiries,
		Cookies:   cookies,
	})
	if err != nil {
		return errors.Wrap(err, "create site handler")
	}
	apiHandler := api.NewHandler(api.HandlerConfig{
		Items:   src.items,
		Tiers:   src.tiers,
		Carts:   carts,
		Orders:  orders,
		Cookies: cookies,
	})
	images := assets.NewServer(os.DirFS(cfg.AssetsDir), assets.Config{Label: site.Business})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	mux.Handle("GET /assets/{name}", images)
	pages.Register(mux)
	apiHandler.Register(mux)
	routeFinder := httpmiddleware.MakeRouteFinder(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(lg),
			httpmiddleware.Recovery(),
			httpmiddleware.Instrument("spitbraai", routeFinder, m),
			httpmiddleware.Labeler(routeFinder),
			httpmiddleware.LogRequests(routeFinder),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			}),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				PathPrefix:       "/api/",
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.Gzip(pgzip.BestSpeed),
		),
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return store.Run(gctx, cfg.Session.SweepInterval, func(removed int) {
			lg.Debug("Expired sessions removed", zap.Int("removed", removed), zap.Int("live", store.Len()))
		})
	})
	g.Go(func() error {
		// Graceful shutdown: wait for cancellation, drain, then stop.
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
