// Package database handles database connections and schema inspection.
//
// It wraps GORM to open the snapshot ledger database. sqlite is the default
// and keeps the ledger in a single file in the catalog root; MySQL is
// available for catalogs shared between machines.
//
// # Schema Inspection
//
// TableColumns lists the columns of a table for either dialect. ModelColumns
// derives the columns a GORM model needs from its schema, and DiffTable
// compares the two. The integrity checks use them to verify the ledger table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database.ResolveName(store.Root()))
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
//
//	expected, err := database.ModelColumns(&ledger.SnapshotRecord{})
//	diff, err := database.DiffTable(db, "snapshot_records", expected)
package database
