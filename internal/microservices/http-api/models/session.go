package models

import (
	"time"
)

// Session records an issued session token so it can be revoked on logout.
// The token itself carries the principal; this row only tracks validity.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

func (Session) TableName() string {
	return "sessions"
}
