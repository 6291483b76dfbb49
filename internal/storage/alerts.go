package storage

import (
	"context"
	"errors"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/models"
	"gorm.io/gorm"
)

// AlertStore is the Postgres-backed alert repository.
type AlertStore struct {
	db *gorm.DB
}

func NewAlertStore(db *gorm.DB) *AlertStore {
	return &AlertStore{db: db}
}

func (s *AlertStore) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, alerting.ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (s *AlertStore) ListByDevice(ctx context.Context, device string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("device_name = ?", device).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (s *AlertStore) ListAll(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).Order("id").Find(&alerts).Error
	return alerts, err
}

func (s *AlertStore) Create(ctx context.Context, alert *models.Alert) error {
	return s.db.WithContext(ctx).Create(alert).Error
}

// Delete removes an alert and reports how many rows matched, so callers
// can distinguish a missing id from a successful delete.
func (s *AlertStore) Delete(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Alert{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// ClaimNotify latches the notify flag with compare-and-set semantics:
// only a row still holding notify=false is updated. A zero row count
// means another evaluation claimed the transition first.
func (s *AlertStore) ClaimNotify(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND notify = ?", id, false).
		Update("notify", true)
	return res.RowsAffected, res.Error
}
