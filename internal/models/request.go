package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	EndpointWeather  = "weather"
	EndpointCurrency = "currency"

	StatusSuccess = "success"
)

// Request is one collection attempt against an upstream API.
type Request struct {
	ID          uint      `gorm:"primaryKey"`
	Endpoint    string    `gorm:"type:varchar(50);not null"`
	RequestTime time.Time `gorm:"not null;autoCreateTime;index:idx_requests_time"`
	Status      string    `gorm:"type:varchar(20)"`
}

// Response holds the normalized payload of a successful Request.
type Response struct {
	ID           uint           `gorm:"primaryKey"`
	RequestID    uint           `gorm:"not null;index"`
	Request      *Request       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ResponseData datatypes.JSON `gorm:"not null"`
	ResponseTime time.Time      `gorm:"not null;autoCreateTime"`
}

// RequestRecord is a request joined with its (possibly missing) response.
type RequestRecord struct {
	RequestID    uint            `json:"request_id"`
	Endpoint     string          `json:"endpoint"`
	RequestTime  time.Time       `json:"request_time"`
	Status       string          `json:"status"`
	ResponseData json.RawMessage `json:"response_data"`
	ResponseTime *time.Time      `json:"response_time"`
}

func IsKnownEndpoint(endpoint string) bool {
	return endpoint == EndpointWeather || endpoint == EndpointCurrency
}
