package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apicollector/internal/models"
	"apicollector/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

const (
	// lookupWindow is how many recent records GetRequest searches.
	lookupWindow = 100

	latestKeyPrefix = "collector:latest:"
)

type DataService interface {
	SaveWeather(ctx context.Context, raw *models.WeatherAPIResponse, city string) (uint, error)
	SaveCurrency(ctx context.Context, raw *models.CurrencyAPIResponse, base string) (uint, error)
	ListRecent(ctx context.Context, limit int) ([]models.RequestRecord, error)
	GetRequest(ctx context.Context, id uint) (*models.RequestRecord, error)
	GetLatest(ctx context.Context, endpoint string) (*models.RequestRecord, error)
	// GetStats never fails; an unreachable store yields a degraded empty result.
	GetStats(ctx context.Context) models.StatsResult
	Health(ctx context.Context) models.Health
}

type dataService struct {
	repo      repository.RequestRepository
	cacheRepo repository.CacheRepository
	log       *logrus.Logger
	latestTTL time.Duration
}

type DataConfig struct {
	// Interval is the collection interval; cached latest records live twice as long.
	Interval time.Duration
}

// NewDataService wires the store. cacheRepo may be nil when Redis is disabled.
func NewDataService(
	repo repository.RequestRepository,
	cacheRepo repository.CacheRepository,
	log *logrus.Logger,
	config DataConfig,
) DataService {
	return &dataService{
		repo:      repo,
		cacheRepo: cacheRepo,
		log:       log,
		latestTTL: 2 * config.Interval,
	}
}

func (s *dataService) SaveWeather(ctx context.Context, raw *models.WeatherAPIResponse, city string) (uint, error) {
	if raw == nil {
		return 0, fmt.Errorf("save weather: empty payload")
	}

	payload, err := models.NormalizeWeather(*raw, city)
	if err != nil {
		s.log.WithError(err).WithField("endpoint", models.EndpointWeather).Error("Failed to normalize weather data")
		return 0, fmt.Errorf("save weather: %w", err)
	}

	return s.save(ctx, models.EndpointWeather, payload)
}

func (s *dataService) SaveCurrency(ctx context.Context, raw *models.CurrencyAPIResponse, base string) (uint, error) {
	if raw == nil {
		return 0, fmt.Errorf("save currency: empty payload")
	}

	return s.save(ctx, models.EndpointCurrency, models.NormalizeCurrency(*raw, base))
}

func (s *dataService) save(ctx context.Context, endpoint string, payload interface{}) (uint, error) {
	rec, err := s.repo.SaveRecord(ctx, endpoint, payload)
	if err != nil {
		s.log.WithError(err).WithField("endpoint", endpoint).Error("Failed to save data")
		return 0, fmt.Errorf("save %s: %w", endpoint, err)
	}

	s.cacheLatest(ctx, rec)

	s.log.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"request_id": rec.RequestID,
	}).Info("Data saved")

	return rec.RequestID, nil
}

func (s *dataService) cacheLatest(ctx context.Context, rec *models.RequestRecord) {
	if s.cacheRepo == nil || rec == nil || s.latestTTL <= 0 {
		return
	}
	if err := s.cacheRepo.SetJSON(ctx, latestKeyPrefix+rec.Endpoint, rec, s.latestTTL); err != nil {
		s.log.WithError(err).Warn("Failed to cache latest record")
	}
}

func (s *dataService) ListRecent(ctx context.Context, limit int) ([]models.RequestRecord, error) {
	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch recent data")
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return records, nil
}

// GetRequest looks the id up among the most recent records only.
func (s *dataService) GetRequest(ctx context.Context, id uint) (*models.RequestRecord, error) {
	records, err := s.ListRecent(ctx, lookupWindow)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].RequestID == id {
			return &records[i], nil
		}
	}
	return nil, ErrRequestNotFound
}

func (s *dataService) GetLatest(ctx context.Context, endpoint string) (*models.RequestRecord, error) {
	if !models.IsKnownEndpoint(endpoint) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}

	if s.cacheRepo != nil {
		var cached models.RequestRecord
		err := s.cacheRepo.GetJSON(ctx, latestKeyPrefix+endpoint, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.log.WithError(err).Warn("Failed to read latest record from cache")
		}
	}

	rec, err := s.repo.GetLatest(ctx, endpoint)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("get latest %s: %w", endpoint, err)
	}

	s.cacheLatest(ctx, rec)
	return rec, nil
}

func (s *dataService) GetStats(ctx context.Context) models.StatsResult {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to get statistics")
		return models.StatsResult{
			Stats:    models.EmptyStats(),
			Degraded: true,
			Error:    err.Error(),
		}
	}
	return models.StatsResult{Stats: *stats}
}

func (s *dataService) Health(ctx context.Context) models.Health {
	stats := s.GetStats(ctx)

	health := models.Health{
		Status:        "healthy",
		Database:      "connected",
		Cache:         "disabled",
		LastWeather:   stats.LastWeather,
		LastCurrency:  stats.LastCurrency,
		TotalRequests: stats.TotalRequests,
	}
	if stats.Degraded {
		health.Status = "unhealthy"
		health.Database = "disconnected"
	}

	if s.cacheRepo != nil {
		health.Cache = "connected"
		if err := s.cacheRepo.Ping(ctx); err != nil {
			s.log.WithError(err).Warn("Cache ping failed")
			health.Cache = "disconnected"
		}
	}

	return health
}
