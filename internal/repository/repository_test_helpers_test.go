package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"apicollector/internal/models"
	"apicollector/pkg/database"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// seedRequest inserts a request at a fixed time, with a response unless data is nil.
func seedRequest(t *testing.T, db *gorm.DB, endpoint, status string, at time.Time, data []byte) *models.Request {
	t.Helper()
	req := &models.Request{Endpoint: endpoint, Status: status, RequestTime: at}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	if data != nil {
		resp := &models.Response{RequestID: req.ID, ResponseData: data, ResponseTime: at.Add(time.Second)}
		if err := db.Create(resp).Error; err != nil {
			t.Fatalf("create response: %v", err)
		}
	}
	return req
}

func newCacheForTest(t *testing.T) (*miniredis.Miniredis, CacheRepository) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return m, NewCacheRepository(client)
}
