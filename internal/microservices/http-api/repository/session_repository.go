package repository

import (
	"context"
	"fmt"
	"time"

	"bookrental/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// SessionRepository tracks which issued session tokens are still valid.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	IsActive(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// DBSessionRepository is the GORM implementation of SessionRepository
type DBSessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionRepository stores sessions in the sessions table.
func NewSessionRepository(db *gorm.DB) *DBSessionRepository {
	return &DBSessionRepository{db: db, now: time.Now}
}

func (r *DBSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// IsActive reports whether the session exists, is not revoked and has not
// expired. Times are compared in UTC so SQLite text ordering holds.
func (r *DBSessionRepository) IsActive(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND revoked = ? AND expires_at > ?", sessionID, false, r.now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return count > 0, nil
}

// Revoke marks a session as revoked. Unknown ids are not an error.
func (r *DBSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired and revoked rows, returning how many went.
// The API server calls it periodically.
func (r *DBSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ? OR revoked = ?", r.now().UTC(), true).
		Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
