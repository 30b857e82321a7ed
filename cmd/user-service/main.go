package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/mongo-user-service/internal/config"
	"github.com/vasiliy-maslov/mongo-user-service/internal/db"
	userHttp "github.com/vasiliy-maslov/mongo-user-service/internal/handler/http"
	"github.com/vasiliy-maslov/mongo-user-service/internal/logger"
	"github.com/vasiliy-maslov/mongo-user-service/internal/user"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup(cfg.Log, cfg.App.Name)
	log.Info().Str("storage", cfg.Storage.Driver).Msg("Starting user-service...")

	var (
		userRepository user.Repository
		pinger         userHttp.Pinger
		manager        *db.Manager
	)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		userRepository = user.NewMemoryRepository()
	default:
		manager = db.NewManager(cfg.Mongo)
		// A failed connect is already logged; handlers answer 500 until restart.
		_ = manager.Connect(context.Background())
		userRepository = user.NewRepository(manager)
		pinger = manager
	}

	userSvc := user.NewService(userRepository)
	router := userHttp.NewRouter(userSvc, pinger)

	server := &http.Server{
		Addr:         cfg.App.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("addr", server.Addr).Msg("Could not listen")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	if manager != nil {
		if err := manager.Close(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	log.Info().Msg("User-service stopped gracefully.")
}
