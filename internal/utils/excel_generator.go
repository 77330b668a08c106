package utils

import (
	"fmt"
	"io"
	"time"

	"apicollector/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	requestsSheet = "Requests"
	infoSheet     = "Info"
	timeLayout    = "2006-01-02 15:04:05"
)

// RecordHeaders is the column order shared by the CSV and Excel exports.
var RecordHeaders = []string{"Request ID", "Endpoint", "Request Time", "Status", "Response Time", "Response Data"}

// WriteRecordsExcel renders records as an xlsx workbook with a summary sheet.
func WriteRecordsExcel(w io.Writer, records []models.RequestRecord, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", requestsSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(RecordHeaders))
	for i, h := range RecordHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(requestsSheet, "A1", &header); err != nil {
		return err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(requestsSheet, "A1", "F1", style)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := recordRow(rec)
		values := make([]interface{}, len(row))
		values[0] = rec.RequestID
		for j := 1; j < len(row); j++ {
			values[j] = row[j]
		}
		if err := f.SetSheetRow(requestsSheet, cell, &values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(requestsSheet, "A", "E", 20)
	_ = f.SetColWidth(requestsSheet, "F", "F", 80)

	if err := writeInfoSheet(f, records, generatedAt); err != nil {
		return err
	}

	return f.Write(w)
}

func writeInfoSheet(f *excelize.File, records []models.RequestRecord, generatedAt time.Time) error {
	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}

	byEndpoint := map[string]int{}
	for _, rec := range records {
		byEndpoint[rec.Endpoint]++
	}

	rows := [][]interface{}{
		{"Report Generated", generatedAt.UTC().Format(timeLayout)},
		{"Total Records", len(records)},
		{"Weather Records", byEndpoint[models.EndpointWeather]},
		{"Currency Records", byEndpoint[models.EndpointCurrency]},
	}
	if len(records) > 0 {
		// Records arrive newest first.
		rows = append(rows, []interface{}{"Time Range", fmt.Sprintf("%s to %s",
			records[len(records)-1].RequestTime.UTC().Format(timeLayout),
			records[0].RequestTime.UTC().Format(timeLayout))})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(infoSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(infoSheet, "A", "B", 30)
}

// recordRow flattens a record into its text columns.
func recordRow(rec models.RequestRecord) []string {
	responseTime := ""
	if rec.ResponseTime != nil {
		responseTime = rec.ResponseTime.UTC().Format(timeLayout)
	}
	responseData := ""
	if rec.ResponseData != nil {
		responseData = string(rec.ResponseData)
	}

	return []string{
		fmt.Sprintf("%d", rec.RequestID),
		rec.Endpoint,
		rec.RequestTime.UTC().Format(timeLayout),
		rec.Status,
		responseTime,
		responseData,
	}
}
