package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/config"
	"github.com/the3rafas/cr7system/internal/repository"
	"github.com/the3rafas/cr7system/internal/repository/filedb"
	"github.com/the3rafas/cr7system/internal/repository/mongodb"
	"github.com/the3rafas/cr7system/internal/repository/sheets"
	"github.com/the3rafas/cr7system/internal/scheduler"
	"github.com/the3rafas/cr7system/internal/server/handlers"
	"github.com/the3rafas/cr7system/internal/server/router"
	authsvc "github.com/the3rafas/cr7system/internal/service/auth"
	catalogsvc "github.com/the3rafas/cr7system/internal/service/catalog"
	registrysvc "github.com/the3rafas/cr7system/internal/service/registry"
	reportingsvc "github.com/the3rafas/cr7system/internal/service/reporting"
	"github.com/the3rafas/cr7system/pkg/clients/notify"
	"github.com/the3rafas/cr7system/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.Store
	var sink repository.SummarySink

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.Storage.MongoDB.URI, cfg.Storage.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store, sink = mongoRepo, mongoRepo
	default:
		fileRepo, err := filedb.Open(cfg.Storage.DataDir)
		if err != nil {
			baseLogger.Fatal("failed to init file repository", zap.Error(err))
		}
		store, sink = fileRepo, fileRepo
	}

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets export enabled")
	}

	var notifier notify.Client
	if cfg.Notifier.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Notifier.WebhookURL)
		baseLogger.Info("summary webhook enabled")
	}

	catalogSvc := catalogsvc.NewService(store, baseLogger.Named("svc.catalog"))
	registrySvc := registrysvc.NewService(store, catalogSvc, baseLogger.Named("svc.registry"))
	authSvc := authsvc.NewService(cfg.Auth, store, baseLogger.Named("svc.auth"))
	reportingSvc := reportingsvc.NewService(store, sink, exporter, notifier, baseLogger.Named("svc.reporting"))

	authHandler := handlers.NewAuthHandler(authSvc, cfg.Auth.SessionTTLDays, baseLogger.Named("handlers.auth"))
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog"))
	registryHandler := handlers.NewRegistryHandler(registrySvc, baseLogger.Named("handlers.registry"))
	engine := router.New(authHandler, catalogHandler, registryHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

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
