package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-catalog/core/entry"
	"media-catalog/core/snapshot"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("snapshot record not found")

// Recorder stores the outcome of index runs.
type Recorder interface {
	Record(ctx context.Context, snap *snapshot.Snapshot, documentPath string) (*SnapshotRecord, error)
}

// Filter narrows a List query. Empty fields match everything.
type Filter struct {
	Library   string
	Sector    string
	MediaPath string
	// Limit caps the number of records; zero means no limit.
	Limit int
}

// Ledger keeps the history of snapshots in a database.
type Ledger struct {
	db *gorm.DB
}

// New creates a ledger over db.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Migrate creates or updates the ledger table.
func (l *Ledger) Migrate(ctx context.Context) error {
	if err := l.db.WithContext(ctx).AutoMigrate(&SnapshotRecord{}); err != nil {
		return fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return nil
}

// Record stores a snapshot summary and returns the new record.
func (l *Ledger) Record(ctx context.Context, snap *snapshot.Snapshot, documentPath string) (*SnapshotRecord, error) {
	if snap == nil || snap.Root == nil {
		return nil, fmt.Errorf("cannot record an empty snapshot")
	}

	takenAt := snap.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	rec := &SnapshotRecord{
		ID:           uuid.NewString(),
		Library:      snap.Provenance.Library,
		Sector:       snap.Provenance.Sector,
		MediaPath:    snap.Provenance.MediaPath,
		RootHash:     entry.Hash(snap.Root).String(),
		Files:        snap.Files,
		Dirs:         snap.Dirs,
		Skipped:      len(snap.Skipped),
		DocumentPath: documentPath,
		CreatedAt:    takenAt.UTC(),
	}

	if err := l.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}
	return rec, nil
}

// List returns matching records, newest first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]SnapshotRecord, error) {
	q := l.db.WithContext(ctx).Model(&SnapshotRecord{})
	if f.Library != "" {
		q = q.Where("library = ?", f.Library)
	}
	if f.Sector != "" {
		q = q.Where("sector = ?", f.Sector)
	}
	if f.MediaPath != "" {
		q = q.Where("media_path = ?", f.MediaPath)
	}
	q = q.Order("created_at DESC").Order("id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var records []SnapshotRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return records, nil
}

// Latest returns the newest record for one media path.
func (l *Ledger) Latest(ctx context.Context, library, sector, mediaPath string) (*SnapshotRecord, error) {
	records, err := l.List(ctx, Filter{Library: library, Sector: sector, MediaPath: mediaPath, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s/%s %s", ErrNotFound, library, sector, mediaPath)
	}
	return &records[0], nil
}

// DeleteLibrary removes every record of a library and returns how many were removed.
func (l *Ledger) DeleteLibrary(ctx context.Context, library string) (int64, error) {
	res := l.db.WithContext(ctx).Where("library = ?", library).Delete(&SnapshotRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete snapshots of %s: %w", library, res.Error)
	}
	return res.RowsAffected, nil
}
