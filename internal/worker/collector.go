package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"apicollector/internal/clients"
	"apicollector/internal/metrics"
	"apicollector/internal/models"
	"apicollector/internal/repository"
	"apicollector/internal/service"

	"github.com/sirupsen/logrus"
)

type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

const cycleLockKey = "collector:cycle"

var errNotRunning = errors.New("collector is not running")

type CollectorConfig struct {
	Interval time.Duration
	Weather  clients.WeatherConfig
	Currency clients.CurrencyConfig
	// Exclusive skips a cycle while another one holds the Redis cycle lock.
	Exclusive bool
}

// Collector periodically fetches weather and currency data and stores it.
type Collector struct {
	service   service.DataService
	cacheRepo repository.CacheRepository
	metrics   *metrics.Metrics
	log       *logrus.Logger
	config    CollectorConfig

	mu         sync.Mutex
	state      State
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	httpClient *http.Client
	weather    clients.WeatherClient
	currency   clients.CurrencyClient
}

// NewCollector builds a stopped collector. cacheRepo is only used for the cycle lock and may be nil.
func NewCollector(
	dataService service.DataService,
	cacheRepo repository.CacheRepository,
	m *metrics.Metrics,
	log *logrus.Logger,
	config CollectorConfig,
) *Collector {
	return &Collector{
		service:   dataService,
		cacheRepo: cacheRepo,
		metrics:   m,
		log:       log,
		config:    config,
		state:     StateStopped,
	}
}

func (c *Collector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches the collection loop: one cycle now, then one per interval.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStopped {
		c.log.WithField("state", c.state).Warn("Collector already started")
		return
	}
	c.state = StateStarting

	c.httpClient = clients.NewHTTPClient()
	c.weather = clients.NewWeatherClient(c.httpClient, c.config.Weather)
	c.currency = clients.NewCurrencyClient(c.httpClient, c.config.Currency)

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.wg.Add(1)
	go c.run(c.ctx)

	c.state = StateRunning
	c.log.WithField("interval", c.config.Interval.String()).Info("Collector started")
}

// Stop cancels the loop and in-flight fetches, then waits for them. Safe to call repeatedly.
func (c *Collector) Stop() {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return
	}
	c.state = StateStopping
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.httpClient.CloseIdleConnections()
	c.httpClient = nil
	c.weather = nil
	c.currency = nil
	c.ctx = nil
	c.cancel = nil
	c.state = StateStopped

	c.log.Info("Collector stopped")
}

func (c *Collector) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	c.CollectData(ctx)

	for {
		select {
		case <-ticker.C:
			c.CollectData(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// CollectNow runs one cycle in the background without waiting for it.
// It is not serialized against the scheduled loop unless Exclusive is set.
func (c *Collector) CollectNow() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		go c.CollectData(context.Background())
		return
	}

	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.CollectData(ctx)
	}()
}

// CollectData fetches weather then currency; a failure of one does not stop the other.
func (c *Collector) CollectData(ctx context.Context) {
	if c.config.Exclusive && c.cacheRepo != nil {
		release, ok := c.acquireCycle(ctx)
		if !ok {
			return
		}
		defer release()
	}

	start := time.Now()
	c.log.Debug("Collection cycle started")

	_ = c.FetchWeather(ctx)
	_ = c.FetchCurrency(ctx)

	elapsed := time.Since(start)
	c.metrics.ObserveCycle(elapsed)
	c.log.WithField("duration", elapsed.String()).Debug("Collection cycle finished")
}

func (c *Collector) acquireCycle(ctx context.Context) (func(), bool) {
	ok, err := c.cacheRepo.AcquireLock(ctx, cycleLockKey, c.config.Interval)
	if err != nil {
		c.log.WithError(err).Warn("Cycle lock unavailable, collecting anyway")
		return func() {}, true
	}
	if !ok {
		c.log.Info("Another collection cycle is in progress, skipping")
		return nil, false
	}

	return func() {
		// The cycle context may already be cancelled.
		if err := c.cacheRepo.Delete(context.Background(), cycleLockKey); err != nil {
			c.log.WithError(err).Warn("Failed to release cycle lock")
		}
	}, true
}

func (c *Collector) upstreams() (clients.WeatherClient, clients.CurrencyClient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weather, c.currency
}

// FetchWeather performs one weather request and stores the result. Errors are logged once.
func (c *Collector) FetchWeather(ctx context.Context) error {
	weather, _ := c.upstreams()
	if weather == nil {
		c.log.WithField("endpoint", models.EndpointWeather).Warn("HTTP client not initialized, skipping fetch")
		c.metrics.RecordFetch(models.EndpointWeather, metrics.ResultSkipped)
		return errNotRunning
	}

	raw, err := weather.GetCurrent(ctx)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", models.EndpointWeather).Error("Failed to fetch weather data")
		c.metrics.RecordFetch(models.EndpointWeather, metrics.ResultError)
		return err
	}

	// The data service logs its own failures.
	id, err := c.service.SaveWeather(ctx, raw, weather.City())
	if err != nil {
		c.metrics.RecordFetch(models.EndpointWeather, metrics.ResultError)
		return err
	}

	c.metrics.RecordFetch(models.EndpointWeather, metrics.ResultSuccess)
	c.log.WithFields(logrus.Fields{"endpoint": models.EndpointWeather, "request_id": id}).Info("Weather data collected")
	return nil
}

// FetchCurrency performs one currency request and stores the result. Errors are logged once.
func (c *Collector) FetchCurrency(ctx context.Context) error {
	_, currency := c.upstreams()
	if currency == nil {
		c.log.WithField("endpoint", models.EndpointCurrency).Warn("HTTP client not initialized, skipping fetch")
		c.metrics.RecordFetch(models.EndpointCurrency, metrics.ResultSkipped)
		return errNotRunning
	}

	raw, err := currency.GetLatest(ctx)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", models.EndpointCurrency).Error("Failed to fetch currency data")
		c.metrics.RecordFetch(models.EndpointCurrency, metrics.ResultError)
		return err
	}

	id, err := c.service.SaveCurrency(ctx, raw, currency.Base())
	if err != nil {
		c.metrics.RecordFetch(models.EndpointCurrency, metrics.ResultError)
		return err
	}

	c.metrics.RecordFetch(models.EndpointCurrency, metrics.ResultSuccess)
	c.log.WithFields(logrus.Fields{"endpoint": models.EndpointCurrency, "request_id": id}).Info("Currency data collected")
	return nil
}
