package clients

import (
	"context"
	"net/http"
	"net/url"

	"apicollector/internal/models"
)

type WeatherClient interface {
	GetCurrent(ctx context.Context) (*models.WeatherAPIResponse, error)
	City() string
}

type weatherClient struct {
	baseURL    string
	apiKey     string
	city       string
	httpClient *http.Client
}

type WeatherConfig struct {
	URL    string
	APIKey string
	City   string
}

func NewWeatherClient(httpClient *http.Client, config WeatherConfig) WeatherClient {
	return &weatherClient{
		baseURL:    config.URL,
		apiKey:     config.APIKey,
		city:       config.City,
		httpClient: httpClient,
	}
}

func (c *weatherClient) City() string {
	return c.city
}

// GetCurrent fetches current conditions for the configured city.
func (c *weatherClient) GetCurrent(ctx context.Context) (*models.WeatherAPIResponse, error) {
	params := url.Values{}
	params.Set("q", c.city)
	params.Set("appid", c.apiKey)

	var data models.WeatherAPIResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL, params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
