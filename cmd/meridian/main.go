package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-erp/internal/app"
	"github.com/meridian-erp/meridian-erp/internal/auth"
	"github.com/meridian-erp/meridian-erp/internal/dashboard"
	"github.com/meridian-erp/meridian-erp/internal/gatepass"
	"github.com/meridian-erp/meridian-erp/internal/ledger"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/categories"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/pricelists"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/products"
	"github.com/meridian-erp/meridian-erp/internal/menu"
	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
	"github.com/meridian-erp/meridian-erp/internal/platform/db"
	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/print"
	"github.com/meridian-erp/meridian-erp/internal/procurement"
	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
	"github.com/meridian-erp/meridian-erp/internal/sales/orders"
	"github.com/meridian-erp/meridian-erp/internal/sales/returns"
	"github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionSecret, err := app.DeriveSecret(cfg.AppSecret, "session")
	if err != nil {
		logger.Error("derive session secret", slog.Any("error", err))
		os.Exit(1)
	}
	csrfSecret, err := app.DeriveSecret(cfg.AppSecret, "csrf")
	if err != nil {
		logger.Error("derive csrf secret", slog.Any("error", err))
		os.Exit(1)
	}

	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", sessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(csrfSecret)
	auditLogger := shared.NewAuditLogger(pool)
	idempotency := shared.NewIdempotencyStore(pool)

	// Each outbound API call is authenticated with the bearer token stored
	// on the caller's session.
	apiClient := erpapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, func(ctx context.Context) string {
		if sess := shared.SessionFromContext(ctx); sess != nil {
			return sess.Token()
		}
		return ""
	})

	menuService := menu.NewService(apiClient)
	gate := menu.Middleware{Service: menuService, Audit: auditLogger, Logger: logger}

	gotenberg := print.NewGotenbergClient(cfg.GotenbergURL)
	printService, err := print.NewService(apiClient, gotenberg)
	if err != nil {
		logger.Error("init print service", slog.Any("error", err))
		os.Exit(1)
	}

	draftStore := returns.NewDraftStore(redisClient, cfg.DraftTTL)
	ledgerService := ledger.NewService(apiClient)
	returnsService := returns.NewService(logger, draftStore, apiClient, apiClient, ledgerService, auditLogger)

	authService := auth.NewService(apiClient, auditLogger)
	customersService := customers.NewService(apiClient)
	ordersService := orders.NewService(apiClient)
	gatepassService := gatepass.NewService(apiClient)
	productsService := products.NewService(apiClient, redisClient, cfg.ProductCacheTTL)
	categoriesService := categories.NewService(apiClient)
	pricelistsService := pricelists.NewService(apiClient)
	procurementService := procurement.NewService(apiClient)
	dashboardService := dashboard.NewService(logger, apiClient, redisClient, cfg.DashboardCacheTTL)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		MenuService:    menuService,

		AuthHandler:        auth.NewHandler(logger, authService, sessionManager, csrfManager, auditLogger),
		CustomersHandler:   customers.NewHandler(logger, customersService, gate),
		OrdersHandler:      orders.NewHandler(logger, ordersService, gate),
		ReturnsHandler:     returns.NewHandler(logger, returnsService, printService, idempotency, gate),
		GatePassHandler:    gatepass.NewHandler(logger, gatepassService, gate),
		ProductsHandler:    products.NewHandler(logger, productsService, gate),
		CategoriesHandler:  categories.NewHandler(logger, categoriesService, gate),
		PriceListsHandler:  pricelists.NewHandler(logger, pricelistsService, gate),
		ProcurementHandler: procurement.NewHandler(logger, procurementService, gate),
		DashboardHandler:   dashboard.NewHandler(logger, dashboardService, gate),
		JobsHandler:        jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
}
