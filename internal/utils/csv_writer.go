package utils

import (
	"encoding/csv"
	"io"

	"apicollector/internal/models"
)

func WriteRecordsCSV(w io.Writer, records []models.RequestRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(RecordHeaders); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write(recordRow(rec)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
