package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps a gorm DB instance and records board session bookkeeping.
// A nil *Store is valid and turns every method into a no-op.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// parseID maps a board id onto a primary key. Ids that are not UUIDs
// (hand-typed paths) are not recorded.
func parseID(id string) (uuid.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return u, true
}

// BoardCreated inserts a session row for a new board.
func (s *Store) BoardCreated(ctx context.Context, id string, at time.Time) error {
	if s == nil {
		return nil
	}
	u, ok := parseID(id)
	if !ok {
		return nil
	}
	row := BoardSession{ID: u, Active: true, LastSeen: at}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{"active": true, "last_seen": at, "ended_at": nil}),
	}).Create(&row).Error
}

// BoardMoved bumps the move counters and the last seen time.
func (s *Store) BoardMoved(ctx context.Context, id string, captured bool, at time.Time) error {
	if s == nil {
		return nil
	}
	u, ok := parseID(id)
	if !ok {
		return nil
	}
	updates := map[string]any{
		"moves":     gorm.Expr("moves + ?", 1),
		"last_seen": at,
	}
	if captured {
		updates["captures"] = gorm.Expr("captures + ?", 1)
	}
	return s.db.WithContext(ctx).Model(&BoardSession{}).Where("id = ?", u).Updates(updates).Error
}

// BoardDropped marks a session as ended after the hub let it go.
func (s *Store) BoardDropped(ctx context.Context, id string, at time.Time) error {
	if s == nil {
		return nil
	}
	u, ok := parseID(id)
	if !ok {
		return nil
	}
	return s.db.WithContext(ctx).Model(&BoardSession{}).Where("id = ?", u).
		Updates(map[string]any{"active": false, "ended_at": at}).Error
}

// LoadSession fetches one session row.
func (s *Store) LoadSession(ctx context.Context, id string) (*BoardSession, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	u, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var row BoardSession
	if err := s.db.WithContext(ctx).First(&row, "id = ?", u).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Stats represents aggregate counts for boards.
type Stats struct {
	Started int64 `json:"started"`
	Active  int64 `json:"active"`
	Moves   int64 `json:"moves"`
}

// FetchStats aggregates counts for display on the home page.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&BoardSession{}).Count(&stats.Started).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&BoardSession{}).Where("active = ?", true).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&BoardSession{}).Select("COALESCE(SUM(moves), 0)").Scan(&stats.Moves).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// DeactivateAll marks every session inactive, used at startup since boards
// do not survive a restart.
func (s *Store) DeactivateAll(ctx context.Context, at time.Time) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&BoardSession{}).Where("active = ?", true).
		Updates(map[string]any{"active": false, "ended_at": at}).Error
}
