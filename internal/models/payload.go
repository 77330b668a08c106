package models

import (
	"errors"
	"math"
)

const kelvinOffset = 273.15

// TrackedCurrencies is the allow-list of rates kept from the currency API.
var TrackedCurrencies = []string{"EUR", "GBP", "JPY", "RUB", "CNY", "USD"}

var ErrMissingWeatherCondition = errors.New("weather payload has no condition entry")

// WeatherAPIResponse is the subset of the OpenWeatherMap current weather body we read.
type WeatherAPIResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// CurrencyAPIResponse is the exchange-rate API body.
type CurrencyAPIResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

type WeatherPayload struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
}

type CurrencyPayload struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// KelvinToCelsius converts and rounds to two decimal places.
func KelvinToCelsius(k float64) float64 {
	return math.Round((k-kelvinOffset)*100) / 100
}

func NormalizeWeather(raw WeatherAPIResponse, city string) (WeatherPayload, error) {
	if len(raw.Weather) == 0 {
		return WeatherPayload{}, ErrMissingWeatherCondition
	}

	return WeatherPayload{
		City:        city,
		Temperature: KelvinToCelsius(raw.Main.Temp),
		FeelsLike:   KelvinToCelsius(raw.Main.FeelsLike),
		Humidity:    raw.Main.Humidity,
		Pressure:    raw.Main.Pressure,
		Description: raw.Weather[0].Description,
		WindSpeed:   raw.Wind.Speed,
	}, nil
}

func NormalizeCurrency(raw CurrencyAPIResponse, base string) CurrencyPayload {
	return CurrencyPayload{
		Base:  base,
		Date:  raw.Date,
		Rates: FilterRates(raw.Rates),
	}
}

// FilterRates keeps only tracked currencies present upstream.
func FilterRates(rates map[string]float64) map[string]float64 {
	filtered := make(map[string]float64, len(TrackedCurrencies))
	for _, code := range TrackedCurrencies {
		if rate, ok := rates[code]; ok {
			filtered[code] = rate
		}
	}
	return filtered
}
