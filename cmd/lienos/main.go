package main

import (
	"flag"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/lienworks/lienos/internal/config"
	"github.com/lienworks/lienos/internal/infra/database"
	"github.com/lienworks/lienos/internal/infra/repository"
	"github.com/lienworks/lienos/internal/present/rest"
	"github.com/lienworks/lienos/internal/service"
	"github.com/lienworks/lienos/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("config file not loaded, using defaults",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		cfg = config.Default()
	}

	var store usecase.Store
	switch cfg.Server.Storage {
	case "memory":
		store = repository.NewMemoryStore()
	default:
		db, err := database.NewPostgres(cfg.Server.PostgresDsn)
		if err != nil {
			panic("failed to connect database")
		}
		if err := database.MigratePostgres(db); err != nil {
			panic("failed to migrate database")
		}
		store = repository.NewDocumentRepository(db)
	}

	var valuationCache usecase.ValuationCache
	var signal *service.SignalService
	if cfg.Server.RedisAddr != "" {
		rdb := database.NewRedis(cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)
		valuationCache = repository.NewRedisValuationCache(rdb, time.Duration(cfg.Server.ValuationTTLs)*time.Second)
		if cfg.Server.EnableRealtime {
			signal = service.NewSignalService(rdb)
		}
	}

	valuation := usecase.NewValuationUsecase(store, valuationCache, cfg.ValuationPolicy())
	deadline := usecase.NewDeadlineUsecase(store, signalOrNil(signal), cfg.Policy.AlertDaysBefore)
	payment := usecase.NewPaymentUsecase(store, valuation, signalOrNil(signal))
	tracker := usecase.NewTrackerUsecase(store, deadline)
	dispatcher := usecase.NewDispatcher(valuation, deadline, payment)

	documents := service.NewDocumentService(valuation, deadline, nil)
	if cfg.Server.MemcachedAddr != "" {
		documents = service.NewDocumentService(valuation, deadline, database.NewMemcached(cfg.Server.MemcachedAddr))
	}

	handler := rest.NewHandler(tracker, valuation, deadline, payment, dispatcher, documents, signal)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(cfg.Server.ListenAddr))
}

// signalOrNil avoids handing usecases a typed-nil Publisher.
func signalOrNil(s *service.SignalService) usecase.Publisher {
	if s == nil {
		return nil
	}
	return s
}
