package reconcile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncCheckpoint is a small key-value row recording how far synchronization
// has progressed. The cursor value is opaque: whatever timestamp string the
// server handed back last is handed forward unchanged.
type SyncCheckpoint struct {
	Key       string    `gorm:"column:key;type:varchar(64);primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SyncCheckpoint) TableName() string {
	return "sync_state"
}

const cursorKey = "last_sync_cursor"

type CheckpointStore struct {
	db *gorm.DB
}

func NewCheckpointStore(db *gorm.DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// Cursor returns the saved cursor, or "" when no cycle has completed yet. An
// empty cursor makes the next fetch a full catch-up.
func (s *CheckpointStore) Cursor(ctx context.Context) (string, error) {
	var row SyncCheckpoint
	err := s.db.WithContext(ctx).First(&row, "key = ?", cursorKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *CheckpointStore) SaveCursor(ctx context.Context, cursor string) error {
	row := SyncCheckpoint{Key: cursorKey, Value: cursor, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
