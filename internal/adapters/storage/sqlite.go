// Package storage persists dump snapshots using GORM and SQLite so past
// telemetry reports can be listed and re-rendered after the live store has
// been cleared.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// SQLiteArchive implements ports.SnapshotArchive.
type SQLiteArchive struct {
	db *gorm.DB
}

// SnapshotModel is the GORM model for one persisted snapshot.
type SnapshotModel struct {
	ID            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	SessionCount  int
	StaEventCount int
	CaptureCount  int
	// Full snapshot content, JSON encoded. Kept opaque so schema churn in
	// the snapshot never needs a migration.
	Payload []byte

	Sessions []SessionModel `gorm:"foreignKey:SnapshotID"`
}

// SessionModel is the GORM model for one finalized session, denormalized for
// querying without decoding the payload.
type SessionModel struct {
	ID             string `gorm:"primaryKey"`
	SnapshotID     string `gorm:"index"`
	Interface      string
	SSID           string
	NetworkID      int
	DurationMillis int64
	FailureCode    int
	Abandoned      bool
	Succeeded      bool
}

// NewSQLiteArchive opens (creating if needed) the archive database at path
// and migrates the schema.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot archive: %w", err)
	}

	if err := db.AutoMigrate(&SnapshotModel{}, &SessionModel{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot archive: %w", err)
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshot_models(created_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_ssid ON session_models(ssid)")

	return &SQLiteArchive{db: db}, nil
}

// SaveSnapshot persists snap and its finalized sessions.
func (a *SQLiteArchive) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", snap.ID, err)
	}

	model := SnapshotModel{
		ID:            snap.ID,
		CreatedAt:     snap.CreatedAt,
		SessionCount:  len(snap.Sessions),
		StaEventCount: len(snap.StaEvents),
		CaptureCount:  len(snap.Captures),
		Payload:       payload,
	}
	for _, s := range snap.Sessions {
		model.Sessions = append(model.Sessions, SessionModel{
			ID:             s.ID,
			SnapshotID:     snap.ID,
			Interface:      s.Interface,
			SSID:           s.SSID,
			NetworkID:      s.NetworkID,
			DurationMillis: s.DurationMillis,
			FailureCode:    int(s.FailureCode),
			Abandoned:      s.Abandoned,
			Succeeded:      s.Succeeded(),
		})
	}

	if err := a.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("saving snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// RecentSnapshots lists the newest snapshots, most recent first.
func (a *SQLiteArchive) RecentSnapshots(ctx context.Context, limit int) ([]domain.SnapshotSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []SnapshotModel
	err := a.db.WithContext(ctx).
		Select("id", "created_at", "session_count", "sta_event_count", "capture_count").
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	out := make([]domain.SnapshotSummary, 0, len(models))
	for _, m := range models {
		out = append(out, domain.SnapshotSummary{
			ID:            m.ID,
			CreatedAt:     m.CreatedAt,
			SessionCount:  m.SessionCount,
			StaEventCount: m.StaEventCount,
			CaptureCount:  m.CaptureCount,
		})
	}
	return out, nil
}

// GetSnapshot decodes one persisted snapshot by ID.
func (a *SQLiteArchive) GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var model SnapshotModel
	if err := a.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return snap, fmt.Errorf("loading snapshot %s: %w", id, err)
	}
	if err := json.Unmarshal(model.Payload, &snap); err != nil {
		return snap, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return snap, nil
}

// Close closes the underlying database handle.
func (a *SQLiteArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
