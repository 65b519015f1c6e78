package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skburgers/backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchUnpublished locks and returns publishable rows inside tx, skipping
// rows another publisher already claimed.
func (r *Repository) FetchUnpublished(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if tx == nil {
		return nil, errors.New("transaction required")
	}
	var rows []models.OutboxEvent
	err := tx.
		Where("published_at IS NULL AND attempt_count < ?", maxAttempts).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Clauses(forUpdateSkipLocked()).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublished(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published_at": time.Now(),
		}).Error
}

func (r *Repository) MarkFailed(tx *gorm.DB, id uuid.UUID, cause error) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":    cause.Error(),
			"attempt_count": gorm.Expr("attempt_count + 1"),
		}).Error
}

func forUpdateSkipLocked() clause.Locking {
	return clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}
}
