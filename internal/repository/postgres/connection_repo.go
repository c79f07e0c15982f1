package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mhasan/chatwave/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type connectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *connectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Upsert(ctx context.Context, record *domain.ConnectionRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"handle_id", "client_info", "connected_at"}),
		}).
		Create(record).Error
}

// Delete removes the mirror row only while it still points at the given
// handle, matching the registry's stale-unregister semantics.
func (r *connectionRepository) Delete(ctx context.Context, userID uuid.UUID, handleID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.ConnectionRecord{}, "user_id = ? AND handle_id = ?", userID, handleID).Error
}

func (r *connectionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ConnectionRecord, error) {
	var record domain.ConnectionRecord
	err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
