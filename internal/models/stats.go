package models

import "time"

type EndpointStat struct {
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	Count    int64  `json:"count"`
}

type Stats struct {
	TotalRequests int64          `json:"total_requests"`
	Statistics    []EndpointStat `json:"statistics"`
	LastWeather   *time.Time     `json:"last_weather"`
	LastCurrency  *time.Time     `json:"last_currency"`
}

// StatsResult separates an unavailable store (Degraded) from an empty one.
type StatsResult struct {
	Stats
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

func EmptyStats() Stats {
	return Stats{Statistics: []EndpointStat{}}
}

type Health struct {
	Status        string     `json:"status"`
	Database      string     `json:"database"`
	Cache         string     `json:"cache"`
	LastWeather   *time.Time `json:"last_weather"`
	LastCurrency  *time.Time `json:"last_currency"`
	TotalRequests int64      `json:"total_requests"`
}
