package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apicollector/internal/clients"
	"apicollector/internal/config"
	"apicollector/internal/handlers"
	"apicollector/internal/logger"
	"apicollector/internal/metrics"
	"apicollector/internal/repository"
	"apicollector/internal/service"
	"apicollector/internal/worker"
	"apicollector/pkg/database"
	"apicollector/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.ErrorFile)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	log.Info("=== API Collector Starting ===")

	db, err := database.Connect(database.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
		Path:     cfg.DB.Path,
		Debug:    cfg.App.Debug,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	log.WithField("driver", cfg.DB.Driver).Info("Database ready")

	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()

		version, err := redis.ServerVersion(context.Background(), redisClient)
		if err != nil {
			log.WithError(err).Warn("Failed to read Redis version")
		}
		log.WithField("version", version).Info("Redis connected")

		cacheRepo = repository.NewCacheRepository(redisClient)
	}

	m := metrics.New()

	requestRepo := repository.NewRequestRepository(db)
	dataService := service.NewDataService(requestRepo, cacheRepo, log, service.DataConfig{
		Interval: cfg.Collector.Interval,
	})

	collector := worker.NewCollector(dataService, cacheRepo, m, log, worker.CollectorConfig{
		Interval: cfg.Collector.Interval,
		Weather: clients.WeatherConfig{
			URL:    cfg.Weather.URL,
			APIKey: cfg.Weather.APIKey,
			City:   cfg.Weather.City,
		},
		Currency: clients.CurrencyConfig{
			URL:  cfg.Currency.URL,
			Base: cfg.Currency.Base,
		},
		Exclusive: cfg.Collector.Exclusive,
	})

	scheduler := worker.NewScheduler(log)
	scheduler.AddWorker(collector)
	scheduler.Start()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.SetLevel(logrus.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	routerConfig := handlers.RouterConfig{
		AllowOrigins: []string{"http://localhost:3000", cfg.App.FrontendURL},
	}
	// Rate limiting only outside debug mode
	if !cfg.App.Debug {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.Burst = cfg.RateLimit.Burst
		log.WithFields(logrus.Fields{
			"rps":   cfg.RateLimit.RequestsPerSecond,
			"burst": cfg.RateLimit.Burst,
		}).Info("Rate limiting enabled")
	}

	r := handlers.SetupRouter(dataService, collector, m, log, routerConfig)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Server starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	scheduler.Stop()

	log.Info("Server exited properly")
}
