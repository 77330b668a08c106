package utils

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"apicollector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []models.RequestRecord {
	newest := time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC)
	oldest := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	respTime := oldest.Add(time.Second)
	return []models.RequestRecord{
		{RequestID: 2, Endpoint: models.EndpointCurrency, RequestTime: newest, Status: models.StatusSuccess},
		{
			RequestID:    1,
			Endpoint:     models.EndpointWeather,
			RequestTime:  oldest,
			Status:       models.StatusSuccess,
			ResponseData: json.RawMessage(`{"city":"London","temperature":27}`),
			ResponseTime: &respTime,
		},
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, RecordHeaders, rows[0])
	assert.Equal(t, []string{"2", "currency", "2024-05-01 12:05:00", "success", "", ""}, rows[1])
	assert.Equal(t, "2024-05-01 12:00:01", rows[2][4])
	assert.JSONEq(t, `{"city":"London","temperature":27}`, rows[2][5])
}

func TestWriteRecordsExcel(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, WriteRecordsExcel(&buf, sampleRecords(), generated))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(requestsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, RecordHeaders, rows[0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "weather", rows[2][1])

	total, err := f.GetCellValue(infoSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	rangeValue, err := f.GetCellValue(infoSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 12:00:00 to 2024-05-01 12:05:00", rangeValue)
}

func TestWriteRecordsExcelEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsExcel(&buf, nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(requestsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
