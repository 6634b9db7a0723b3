package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/config"
	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/handlers"
	"github.com/smartkrishi/smart-krishi-api/logging"
	"github.com/smartkrishi/smart-krishi-api/providers"
	"github.com/smartkrishi/smart-krishi-api/routes"
	"github.com/smartkrishi/smart-krishi-api/weather"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.Production())

	// The service starts without a database; store-backed routes then fail
	// and /test reports it.
	var repo database.Repository
	var store *database.Store
	if cfg.StoreConfigured() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err = database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			log.WithError(err).Warn("database unavailable")
		} else {
			if err := store.Ping(ctx); err != nil {
				log.WithError(err).Warn("database ping failed")
			}
			repo = store
		}
		cancel()
	} else {
		log.Warn("DATABASE_URL or DATABASE_NAME not set, running without a database")
	}

	var cache weather.Cache
	var redisCache *weather.RedisCache
	if cfg.RedisURL != "" && !cfg.WeatherMock() {
		redisCache, err = weather.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("weather cache disabled")
		} else {
			cache = redisCache
		}
	}
	if cfg.WeatherMock() {
		log.Info("OPENWEATHER_API_KEY not set, weather in mock mode")
	}
	forecasts := weather.NewProvider(weather.LiveConfig{
		APIKey:        cfg.WeatherAPIKey,
		BaseURL:       cfg.WeatherBaseURL,
		Timeout:       cfg.WeatherTimeout,
		RatePerSecond: cfg.WeatherRateLimit,
		Burst:         cfg.WeatherRateBurst,
	}, cache, cfg.WeatherCacheTTL, log)

	h := handlers.NewHandler(repo, handlers.Deps{
		Weather:         forecasts,
		Classifier:      providers.NewStubClassifier(),
		Dispatcher:      providers.NewLogDispatcher(log),
		Logger:          log,
		DatabaseURLSet:  cfg.DatabaseURL != "",
		DatabaseNameSet: cfg.DatabaseName != "",
	})
	app := routes.NewApp(h, log)

	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("shutdown")
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.WithError(err).Warn("close weather cache")
		}
	}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.WithError(err).Warn("close database")
		}
	}
}
