package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"user-management-service/internal/api"
	"user-management-service/internal/config"
	"user-management-service/internal/repository"
	"user-management-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parse log level")
	}
	zerolog.SetGlobalLevel(level)
	log.Info().Msgf("Configuration loaded: %v", cfg)

	userRepo := repository.NewUserRepository(repository.DefaultSeed())

	var sessions service.SessionStore
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		sessions = repository.NewSessionRepository(rdb)
	}

	var events service.EventWriter
	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.UserTopic)
	if kafkaWriter != nil {
		events = kafkaWriter
	}

	userService := service.NewUserService(userRepo, events, sessions, cfg.JWTSecret, cfg.TokenTTL)
	userHandler := api.NewUserHandler(*userService)

	e := api.NewRouter(userHandler, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server")
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Error().Err(err).Msg("close kafka writer")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
