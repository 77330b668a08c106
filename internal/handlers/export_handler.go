package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"apicollector/internal/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportRequests streams recent records as CSV (default) or xlsx.
func (h *DataHandler) ExportRequests(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" && format != "excel" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "format must be one of csv, xlsx",
		})
		return
	}

	records, err := h.service.ListRecent(c.Request.Context(), parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to export requests",
			"message": err.Error(),
		})
		return
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	var contentType, filename string

	switch format {
	case "csv":
		contentType = "text/csv"
		filename = fmt.Sprintf("requests_%s.csv", now.Format("20060102_150405"))
		err = utils.WriteRecordsCSV(&buf, records)
	default:
		contentType = xlsxContentType
		filename = fmt.Sprintf("requests_%s.xlsx", now.Format("20060102_150405"))
		err = utils.WriteRecordsExcel(&buf, records, now)
	}
	if err != nil {
		h.log.WithError(err).WithField("format", format).Error("Failed to render export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
