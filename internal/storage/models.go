package storage

import (
	"time"

	"github.com/google/uuid"
)

// BoardSession registers one board id. Piece positions are never stored.
type BoardSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Active    bool      `gorm:"index"`
	Moves     int64
	Captures  int64
	LastSeen  time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
