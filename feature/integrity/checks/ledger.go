package checks

import (
	"context"
	"fmt"

	"media-catalog/core/database"
	"media-catalog/core/ledger"

	"gorm.io/gorm"
)

// LedgerReport strictly types the result of a ledger schema check.
type LedgerReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckLedger verifies the ledger table against the columns of the ledger model.
func CheckLedger(ctx context.Context, db *gorm.DB) (*LedgerReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	db = db.WithContext(ctx)

	expected, err := ledger.Columns()
	if err != nil {
		return nil, err
	}
	tableName := ledger.SnapshotRecord{}.TableName()

	report := &LedgerReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	diff, err := database.DiffTable(db, tableName, expected)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
		report.Matched = false
		return report, nil // Partial fail
	}

	tblReport := TableReport{
		MissingColumns: diff.Missing,
		TypeMismatches: diff.Mismatched,
		Status:         "ok",
	}
	if !diff.OK() {
		tblReport.Status = "error"
		report.Matched = false
	}

	report.Tables[tableName] = tblReport
	return report, nil
}

// FixLedger migrates the ledger table to the current model.
func FixLedger(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return ledger.New(db).Migrate(ctx)
}
