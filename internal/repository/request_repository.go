package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"apicollector/internal/models"

	"gorm.io/gorm"
)

type RequestRepository interface {
	// SaveRecord stores a successful request and its payload in one transaction.
	SaveRecord(ctx context.Context, endpoint string, payload interface{}) (*models.RequestRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.RequestRecord, error)
	GetLatest(ctx context.Context, endpoint string) (*models.RequestRecord, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// recordRow is the scan target of the requests/responses join.
type recordRow struct {
	RequestID    uint
	Endpoint     string
	RequestTime  time.Time
	Status       string
	ResponseData []byte
	ResponseTime *time.Time
}

func (r recordRow) toRecord() models.RequestRecord {
	rec := models.RequestRecord{
		RequestID:    r.RequestID,
		Endpoint:     r.Endpoint,
		RequestTime:  r.RequestTime,
		Status:       r.Status,
		ResponseTime: r.ResponseTime,
	}
	if len(r.ResponseData) > 0 {
		rec.ResponseData = json.RawMessage(r.ResponseData)
	}
	return rec
}

func (r *requestRepository) SaveRecord(ctx context.Context, endpoint string, payload interface{}) (*models.RequestRecord, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", endpoint, err)
	}

	var rec *models.RequestRecord
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req := &models.Request{Endpoint: endpoint, Status: models.StatusSuccess}
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("insert request: %w", err)
		}

		resp := &models.Response{RequestID: req.ID, ResponseData: data}
		if err := tx.Create(resp).Error; err != nil {
			return fmt.Errorf("insert response: %w", err)
		}

		rec = &models.RequestRecord{
			RequestID:    req.ID,
			Endpoint:     req.Endpoint,
			RequestTime:  req.RequestTime,
			Status:       req.Status,
			ResponseData: json.RawMessage(data),
			ResponseTime: &resp.ResponseTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *requestRepository) recordsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("requests AS r").
		Select("r.id AS request_id, r.endpoint, r.request_time, r.status, " +
			"res.response_data, res.response_time").
		Joins("LEFT JOIN responses AS res ON r.id = res.request_id")
}

func (r *requestRepository) ListRecent(ctx context.Context, limit int) ([]models.RequestRecord, error) {
	var rows []recordRow
	err := r.recordsQuery(ctx).
		Order("r.request_time DESC, r.id DESC").
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	records := make([]models.RequestRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (r *requestRepository) GetLatest(ctx context.Context, endpoint string) (*models.RequestRecord, error) {
	var rows []recordRow
	err := r.recordsQuery(ctx).
		Where("r.endpoint = ? AND r.status = ?", endpoint, models.StatusSuccess).
		Order("r.request_time DESC, r.id DESC").
		Limit(1).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	rec := rows[0].toRecord()
	return &rec, nil
}

func (r *requestRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := models.EmptyStats()
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Request{}).Count(&stats.TotalRequests).Error; err != nil {
		return nil, err
	}

	err := db.Model(&models.Request{}).
		Select("endpoint, status, COUNT(*) AS count").
		Group("endpoint, status").
		Order("endpoint, status").
		Scan(&stats.Statistics).
		Error
	if err != nil {
		return nil, err
	}
	if stats.Statistics == nil {
		stats.Statistics = []models.EndpointStat{}
	}

	if stats.LastWeather, err = r.lastSuccess(ctx, models.EndpointWeather); err != nil {
		return nil, err
	}
	if stats.LastCurrency, err = r.lastSuccess(ctx, models.EndpointCurrency); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *requestRepository) lastSuccess(ctx context.Context, endpoint string) (*time.Time, error) {
	var reqs []models.Request
	err := r.db.WithContext(ctx).
		Where("endpoint = ? AND status = ?", endpoint, models.StatusSuccess).
		Order("request_time DESC").
		Limit(1).
		Find(&reqs).
		Error
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0].RequestTime, nil
}

func (r *requestRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
