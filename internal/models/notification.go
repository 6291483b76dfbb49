package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationLog records every alert email that was actually handed to the
// mail server, with the alert snapshot that produced it.
type NotificationLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AlertID   int64          `gorm:"not null;index" json:"alert_id"`
	Recipient string         `gorm:"not null" json:"recipient"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb" json:"snapshot"`
	SentAt    time.Time      `gorm:"not null" json:"sent_at"`
}
