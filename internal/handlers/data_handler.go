package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"apicollector/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

// Collector triggers out-of-schedule collection cycles.
type Collector interface {
	CollectNow()
}

type DataHandler struct {
	service   service.DataService
	collector Collector
	log       *logrus.Logger
}

func NewDataHandler(service service.DataService, collector Collector, log *logrus.Logger) *DataHandler {
	return &DataHandler{service: service, collector: collector, log: log}
}

// parseLimit falls back to the default for missing, malformed or non-positive values.
func parseLimit(c *gin.Context) int {
	limit := defaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

func (h *DataHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Weather & Currency Data Collection Service",
		"version": Version,
		"endpoints": []string{
			"/health",
			"/requests",
			"/requests/{request_id}",
			"/requests/export",
			"/latest/{endpoint}",
			"/stats",
			"/collect",
			"/sql-example",
			"/metrics",
		},
	})
}

func (h *DataHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health(c.Request.Context()))
}

func (h *DataHandler) ListRequests(c *gin.Context) {
	records, err := h.service.ListRecent(c.Request.Context(), parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to fetch requests",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *DataHandler) GetRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	record, err := h.service.GetRequest(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to fetch request",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *DataHandler) GetLatest(c *gin.Context) {
	record, err := h.service.GetLatest(c.Request.Context(), c.Param("endpoint"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEndpoint):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no data collected yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "failed to fetch latest record",
				"message": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// Stats always answers 200; a degraded result carries degraded=true.
func (h *DataHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetStats(c.Request.Context()))
}

func (h *DataHandler) Collect(c *gin.Context) {
	h.collector.CollectNow()
	h.log.Info("Manual collection triggered")

	c.JSON(http.StatusAccepted, gin.H{"message": "Data collection started in background"})
}

func (h *DataHandler) SQLExample(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sql_query":   joinQueryExample,
		"description": "Exports the request history together with the received data",
	})
}

const joinQueryExample = `SELECT
    r.id AS request_id,
    r.endpoint,
    r.request_time,
    r.status,
    res.response_data,
    res.response_time
FROM requests r
LEFT JOIN responses res ON r.id = res.request_id
ORDER BY r.request_time DESC
LIMIT 50;`
