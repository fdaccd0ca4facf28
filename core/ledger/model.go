package ledger

import (
	"time"

	"media-catalog/core/database"
)

// SnapshotRecord is one successful index run.
type SnapshotRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Library      string    `gorm:"column:library;type:varchar(255);index:idx_snapshot_target"`
	Sector       string    `gorm:"column:sector;type:varchar(255);index:idx_snapshot_target"`
	MediaPath    string    `gorm:"column:media_path;type:varchar(1024)"`
	RootHash     string    `gorm:"column:root_hash;type:varchar(32)"`
	Files        int       `gorm:"column:files"`
	Dirs         int       `gorm:"column:dirs"`
	Skipped      int       `gorm:"column:skipped"`
	DocumentPath string    `gorm:"column:document_path;type:varchar(1024)"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
}

func (SnapshotRecord) TableName() string {
	return "snapshot_records"
}

// Columns lists the columns the ledger table must have.
func Columns() ([]database.ExpectedColumn, error) {
	return database.ModelColumns(&SnapshotRecord{})
}
