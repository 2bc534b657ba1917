package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cotizador/internal/config"
	"cotizador/internal/infra"
	"cotizador/internal/repository"
	"cotizador/internal/router"
	"cotizador/internal/service"
	"cotizador/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in development, JSON in production
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	store, err := infra.OpenStore(infra.StoreOptions{
		Driver:      cfg.StoreDriver,
		RedisURL:    cfg.RedisURL,
		BadgerPath:  cfg.BadgerPath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open quote store")
	}
	defer store.Close()

	// The job queue and catalog cache live in Redis whatever the store driver.
	var rdb *redis.Client
	if rs, ok := store.(*infra.RedisStore); ok {
		rdb = rs.Client()
	} else if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, async jobs and catalog cache disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if rdb != nil {
		// Worker handlers are wired here (composition root) so the pool gets
		// the mailer and export path without the HTTP layer knowing them.
		quoteRepo := repository.NewQuoteRepository(store, repository.NewKeys(cfg.StoreNamespace))
		docs := service.NewDocumentService(quoteRepo, infra.NewMailer(cfg), cfg.PDFStoragePath, cfg.ExportPath)

		pool := worker.NewPool(rdb)
		worker.Register(pool, worker.NewQuoteEmailWorker(docs), worker.NewERPExportWorker(docs))
		pool.Start(ctx, cfg.WorkerPoolSize)
		worker.StartDLQReplay(ctx, worker.ReplayConfig{
			RDB:    rdb,
			Queues: []string{worker.QueueQuoteEmail, worker.QueueERPExport},
		})
	}

	erp := infra.NewERPClient(cfg.ERPAPIURL, cfg.ERPProductsBasePath)
	fx := infra.NewFXClient(cfg.FXAPIURL)
	r := router.New(cfg, store, rdb, erp, fx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("store", cfg.StoreDriver).Msgf("cotizador backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
