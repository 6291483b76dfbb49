package models

import (
	"time"

	"github.com/google/uuid"
)

// SensorReading is one time-series data point reported by a device.
type SensorReading struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeviceName string    `gorm:"not null;index:idx_readings_stream" json:"device_name"`
	SensorName string    `gorm:"not null;index:idx_readings_stream" json:"sensor_name"`
	Value      float64   `json:"value"`
	EventTime  time.Time `gorm:"not null;index" json:"event_time"`
}
