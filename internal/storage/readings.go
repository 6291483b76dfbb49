package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/ahmetk3436/vigil/internal/models"
	"gorm.io/gorm"
)

// ReadingStore is the Postgres-backed time-series store for sensor data.
type ReadingStore struct {
	db *gorm.DB
}

func NewReadingStore(db *gorm.DB) *ReadingStore {
	return &ReadingStore{db: db}
}

func (s *ReadingStore) Insert(ctx context.Context, reading *models.SensorReading) error {
	return s.db.WithContext(ctx).Create(reading).Error
}

// Average computes the mean value of one sensor stream over [start, end).
// The bool result is false when no readings fell inside the window.
func (s *ReadingStore) Average(ctx context.Context, device, sensor string, start, end time.Time) (float64, bool, error) {
	var avg sql.NullFloat64
	err := s.db.WithContext(ctx).
		Model(&models.SensorReading{}).
		Select("AVG(value)").
		Where("device_name = ? AND sensor_name = ? AND event_time >= ? AND event_time < ?",
			device, sensor, start, end).
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

// Range returns all readings of one stream since the given instant,
// oldest first.
func (s *ReadingStore) Range(ctx context.Context, device, sensor string, since time.Time) ([]models.SensorReading, error) {
	var readings []models.SensorReading
	err := s.db.WithContext(ctx).
		Where("device_name = ? AND sensor_name = ? AND event_time >= ?", device, sensor, since).
		Order("event_time ASC").
		Find(&readings).Error
	return readings, err
}
