package models

import (
	"time"

	"gorm.io/gorm"
)

// Alert is a persisted threshold rule over one device/sensor stream.
// ID is assigned by the database on creation and never changes.
type Alert struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceName   string         `gorm:"not null;index" json:"device_name"`
	SensorName   string         `gorm:"not null" json:"sensor_name"`
	Condition    string         `gorm:"not null" json:"condition"` // <, >, <=, >=, =
	Threshold    float64        `gorm:"not null" json:"threshold"`
	Color        string         `gorm:"default:'#ff0000'" json:"color"`
	PeriodOfTime string         `gorm:"not null;default:'1h'" json:"period_of_time"` // 1h, 1w, 1m
	Notify       bool           `gorm:"not null;default:false" json:"notify"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
