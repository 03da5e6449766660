package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/auth"
	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/cart"
	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/catalog"
	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/checkout"
	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/orders"
	"github.com/a-nagdy/anasityshop-sub000/internal/control/health"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/config"
	"github.com/a-nagdy/anasityshop-sub000/internal/core/worker"
	redisclient "github.com/a-nagdy/anasityshop-sub000/internal/infra/redis"
	"github.com/a-nagdy/anasityshop-sub000/internal/infra/rest"
)

// Gateway is the main application struct that manages the commerce
// services' lifecycle. Facades are built on first use and then shared,
// so idle services cost nothing and every caller sees the same instance.
type Gateway struct {
	cfg          Config
	client       *rest.Client
	redisClient  *redisclient.Client
	healthMon    *health.Monitor
	healthServer *health.Server
	sweeper      *worker.Sweeper
	log          *slog.Logger

	catalogOnce  sync.Once
	catalogSvc   *catalog.Service
	cartOnce     sync.Once
	cartSvc      *cart.Service
	authOnce     sync.Once
	authSvc      *auth.Service
	ordersOnce   sync.Once
	ordersSvc    *orders.Service
	checkoutOnce sync.Once
	checkoutMgr  *checkout.Manager
}

// Config holds the application configuration.
type Config struct {
	Port     int
	API      config.APIConfig
	Services []config.ServiceConfig
	Redis    redisclient.Config
	Checkout config.CheckoutConfig
}

func (c Config) service(name string) config.ServiceConfig {
	for _, svc := range c.Services {
		if svc.Name == name {
			return svc
		}
	}
	return config.ServiceConfig{}
}

// NewGateway creates a new Gateway instance with all dependencies initialized.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api base_url is required")
	}

	log := slog.Default()

	// 1. Initialize the shared request client
	client := rest.New(rest.Options{
		BaseURL: cfg.API.BaseURL,
		Headers: cfg.API.Headers,
		Retry: rest.RetryPolicy{
			MaxRetries: cfg.API.MaxRetries,
			BaseDelay:  cfg.API.RetryBaseDelay,
			Timeout:    cfg.API.Timeout,
		},
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		Logger:    log,
	})

	g := &Gateway{
		cfg:    cfg,
		client: client,
		log:    log,
	}

	// 2. Initialize Redis (optional; checkout drafts live there)
	if cfg.Redis.URL != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, checkout drafts disabled", "error", err)
		} else {
			g.redisClient = redisClient
			g.sweeper = worker.NewSweeper(cfg.Checkout, redisClient, log)
		}
	}

	// 3. Initialize Health Monitor
	var drafts health.DraftProbe
	if g.redisClient != nil {
		drafts = &draftProbe{store: g.redisClient}
	}
	g.healthMon = health.NewMonitor(g, drafts)
	g.healthServer = health.NewServer(g.healthMon, cfg.Port)

	return g, nil
}

// Start starts the gateway and all its background components.
func (g *Gateway) Start(ctx context.Context) error {
	// Start Health Server
	go func() {
		if err := g.healthServer.Start(); err != nil {
			g.log.Error("Health server failed", "error", err)
		}
	}()

	// Start Health Monitor Background Tasks
	go g.healthMon.Start(ctx)

	// Start Draft Sweeper
	if g.sweeper != nil {
		g.log.Info("Starting draft sweeper")
		go g.sweeper.Start(ctx)
	}

	return nil
}

// Stop stops the gateway.
func (g *Gateway) Stop(ctx context.Context) error {
	g.log.Info("Stopping Gateway...")

	// Close Redis
	if g.redisClient != nil {
		if err := g.redisClient.Close(); err != nil {
			g.log.Warn("Failed to close Redis", "error", err)
		}
	}

	// Stop Health Server
	return g.healthServer.Stop(ctx)
}

// Client exposes the shared request client, mostly for probes and tooling.
func (g *Gateway) Client() *rest.Client {
	return g.client
}

// Catalog returns the shared catalog facade.
func (g *Gateway) Catalog() *catalog.Service {
	g.catalogOnce.Do(func() {
		svc := g.cfg.service("catalog")
		g.catalogSvc = catalog.New(g.client, catalog.Options{
			BasePath:   svc.BasePath,
			Timeout:    svc.Timeout,
			MaxRetries: svc.MaxRetries,
			Logger:     g.log,
		})
	})
	return g.catalogSvc
}

// Cart returns the shared cart facade.
func (g *Gateway) Cart() *cart.Service {
	g.cartOnce.Do(func() {
		svc := g.cfg.service("cart")
		g.cartSvc = cart.New(g.client, cart.Options{
			BasePath:   svc.BasePath,
			Timeout:    svc.Timeout,
			MaxRetries: svc.MaxRetries,
			Logger:     g.log,
		})
	})
	return g.cartSvc
}

// Auth returns the shared auth facade.
func (g *Gateway) Auth() *auth.Service {
	g.authOnce.Do(func() {
		svc := g.cfg.service("auth")
		g.authSvc = auth.New(g.client, auth.Options{
			BasePath:   svc.BasePath,
			Timeout:    svc.Timeout,
			MaxRetries: svc.MaxRetries,
			Logger:     g.log,
		})
	})
	return g.authSvc
}

// Orders returns the shared orders facade.
func (g *Gateway) Orders() *orders.Service {
	g.ordersOnce.Do(func() {
		svc := g.cfg.service("orders")
		g.ordersSvc = orders.New(g.client, orders.Options{
			BasePath:   svc.BasePath,
			Timeout:    svc.Timeout,
			MaxRetries: svc.MaxRetries,
			Logger:     g.log,
		})
	})
	return g.ordersSvc
}

// Checkout returns the shared checkout manager, or nil when the draft
// store is disabled.
func (g *Gateway) Checkout() *checkout.Manager {
	g.checkoutOnce.Do(func() {
		if g.redisClient == nil {
			g.log.Warn("Checkout requested but draft store is disabled")
			return
		}
		g.checkoutMgr = checkout.New(g.redisClient, g.Orders(), g.cfg.Checkout.DraftTTL, g.log)
	})
	return g.checkoutMgr
}

// DraftCount reports how many checkout drafts the store currently holds.
func (g *Gateway) DraftCount(ctx context.Context) (int64, error) {
	if g.redisClient == nil {
		return 0, fmt.Errorf("draft store disabled")
	}
	return g.redisClient.CountDrafts(ctx)
}

// ProbeUpstream issues a single cheap request against the commerce API.
// One attempt only; the monitor decides how to grade a failure.
func (g *Gateway) ProbeUpstream(ctx context.Context) error {
	_, err := g.client.Do(ctx, rest.Request{
		Path:  "/categories",
		Query: rest.Query{"limit": 1},
		Retry: &rest.RetryPolicy{MaxRetries: 0, Timeout: 5 * time.Second},
	})
	return err
}

// draftProbe adapts the redis client to the health monitor.
type draftProbe struct {
	store *redisclient.Client
}

func (p *draftProbe) ProbeDrafts(ctx context.Context) (int64, error) {
	if err := p.store.Ping(ctx); err != nil {
		return 0, err
	}
	return p.store.CountDrafts(ctx)
}
