package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/minishop/backend/internal/config"
	"github.com/minishop/backend/internal/db"
	"github.com/minishop/backend/internal/es"
	"github.com/minishop/backend/internal/httpserver"
	"github.com/minishop/backend/internal/logging"
	"github.com/minishop/backend/internal/middleware"
	"github.com/minishop/backend/internal/mykafka"
	"github.com/minishop/backend/internal/repo"
	"github.com/minishop/backend/internal/service"
	"github.com/minishop/backend/internal/token"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if len(cfg.JWTSecret) == 0 {
		logger.Warn("JWT_SECRET is not set; issued tokens will not be trustworthy")
	}

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS is not set; domain events are disabled")
	}

	indexer := &es.Indexer{Index: es.ProductIndex, Log: logger}
	searchHandler := &httpserver.SearchHandler{Index: es.ProductIndex}
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer.Client = client
		searchHandler.ES = client
	} else {
		logger.Warn("ES_URL is not set; product search is disabled")
	}

	tokens := token.NewService(cfg.JWTSecret)
	store := repo.New(database)

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHandler{
			Svc:      &service.AuthService{Repo: store, Tokens: tokens},
			Producer: producer,
		},
		ProductHandler: &httpserver.ProductHandler{
			Svc:      &service.CatalogService{Repo: store},
			Producer: producer,
			Indexer:  indexer,
		},
		OrderHandler: &httpserver.OrderHandler{
			Svc:      &service.OrderService{Repo: store},
			Producer: producer,
		},
		SearchHandler: searchHandler,
		Tokens:        tokens,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
