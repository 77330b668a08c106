package clients

import (
	"context"
	"net/http"

	"apicollector/internal/models"
)

type CurrencyClient interface {
	GetLatest(ctx context.Context) (*models.CurrencyAPIResponse, error)
	Base() string
}

type currencyClient struct {
	baseURL    string
	base       string
	httpClient *http.Client
}

type CurrencyConfig struct {
	URL  string
	Base string
}

func NewCurrencyClient(httpClient *http.Client, config CurrencyConfig) CurrencyClient {
	return &currencyClient{
		baseURL:    config.URL,
		base:       config.Base,
		httpClient: httpClient,
	}
}

func (c *currencyClient) Base() string {
	return c.base
}

// GetLatest fetches the rate table; the base currency is part of the URL.
func (c *currencyClient) GetLatest(ctx context.Context) (*models.CurrencyAPIResponse, error) {
	var data models.CurrencyAPIResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
