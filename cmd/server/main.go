package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/config"
	"github.com/agritrace/agritrace/internal/notify"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
	"github.com/agritrace/agritrace/internal/repository/rediscart"
	"github.com/agritrace/agritrace/internal/repository/sheets"
	"github.com/agritrace/agritrace/internal/scheduler"
	"github.com/agritrace/agritrace/internal/server/handlers"
	"github.com/agritrace/agritrace/internal/server/router"
	cartsvc "github.com/agritrace/agritrace/internal/service/cart"
	catalogsvc "github.com/agritrace/agritrace/internal/service/catalog"
	rolesvc "github.com/agritrace/agritrace/internal/service/roles"
	tracesvc "github.com/agritrace/agritrace/internal/service/trace"
	verificationsvc "github.com/agritrace/agritrace/internal/service/verification"
	"github.com/agritrace/agritrace/pkg/clients/ledger"
	"github.com/agritrace/agritrace/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	cartStore, err := rediscart.NewStore(context.Background(), cfg.Redis.Addr, baseLogger.Named("repo.rediscart"))
	if err != nil {
		baseLogger.Fatal("failed to init redis cart store", zap.Error(err))
	}
	defer func() {
		if err := cartStore.Close(); err != nil {
			baseLogger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	var ledgerClient ledger.Client
	if cfg.Ledger.BaseURL != "" {
		ledgerClient = ledger.NewClient(cfg.Ledger)
		baseLogger.Info("ledger api client enabled", zap.String("base_url", cfg.Ledger.BaseURL))
	} else {
		ledgerClient = ledger.NewSimulatedClient(cfg.Ledger.SimulatedDelay, func() string {
			return "0x" + uuid.NewString()
		})
		baseLogger.Warn("ledger endpoint missing, using simulated settlement")
	}

	catalogSvc := catalogsvc.NewService(nil, baseLogger.Named("svc.catalog"))
	cartEngine := cartsvc.NewEngine(cartStore, catalogSvc, notify.NewToastQueue(), baseLogger.Named("svc.cart"))
	roleSvc := rolesvc.NewService(mongoRepo, baseLogger.Named("svc.roles"))
	traceSvc := tracesvc.NewService(mongoRepo, baseLogger.Named("svc.trace"))
	workflowSvc := verificationsvc.NewService(mongoRepo, ledgerClient, cfg.Ledger.ConfirmTimeout, baseLogger.Named("svc.verification"))

	roleHandler := handlers.NewRoleHandler(roleSvc, baseLogger.Named("handlers.roles"))
	cartHandler := handlers.NewCartHandler(cartEngine, catalogSvc, baseLogger.Named("handlers.cart"))
	batchHandler := handlers.NewBatchHandler(workflowSvc, traceSvc, mongoRepo, baseLogger.Named("handlers.batches"))
	engine := router.New(roleHandler, cartHandler, batchHandler, cfg.Server.AllowedOrigins, baseLogger.Named("router"))

	// The audit export only runs when Sheets credentials are configured.
	if cfg.AuditExportEnabled() {
		auditBook, err := sheets.NewGoogleSheetAuditBook(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init audit book", zap.Error(err))
		}

		sched := scheduler.NewScheduler(*cfg, mongoRepo, auditBook, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	} else {
		baseLogger.Info("audit export disabled, sheets not configured")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
