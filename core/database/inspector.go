package database

import (
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Column is a column as the database reports it. Field and Type are lowercased.
type Column struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// ExpectedColumn is a column a model needs. An empty Type is not checked.
type ExpectedColumn struct {
	Name string
	Type string
}

// SchemaDiff is the difference between a table and the columns expected of it.
type SchemaDiff struct {
	Table      string
	Missing    []string
	Mismatched []string
}

// OK reports whether the table has every expected column with its type.
func (d *SchemaDiff) OK() bool {
	return len(d.Missing) == 0 && len(d.Mismatched) == 0
}

var schemaCache sync.Map

// ModelColumns lists the columns of a GORM model in field order. Types come
// from explicit `type:` tags only; the database picks the rest.
func ModelColumns(model any) ([]ExpectedColumn, error) {
	s, err := schema.Parse(model, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	columns := make([]ExpectedColumn, 0, len(s.DBNames))
	for _, name := range s.DBNames {
		columns = append(columns, ExpectedColumn{
			Name: name,
			Type: strings.ToLower(s.FieldsByDBName[name].TagSettings["TYPE"]),
		})
	}
	return columns, nil
}

// TableColumns lists the columns of a table. A missing table has no columns.
func TableColumns(db *gorm.DB, table string) ([]Column, error) {
	var (
		columns []Column
		err     error
	)
	if db.Dialector.Name() == DriverSQLite {
		columns, err = sqliteColumns(db, table)
	} else {
		columns, err = mysqlColumns(db, table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}

	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

func sqliteColumns(db *gorm.DB, table string) ([]Column, error) {
	var rows []struct {
		Cid       int
		Name      string
		Type      string
		Notnull   int
		DfltValue *string
		Pk        int
	}
	if err := db.Raw("SELECT * FROM pragma_table_info(?)", table).Scan(&rows).Error; err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(rows))
	for _, r := range rows {
		col := Column{Field: r.Name, Type: r.Type, Null: "YES", Default: r.DfltValue}
		if r.Notnull != 0 {
			col.Null = "NO"
		}
		if r.Pk != 0 {
			col.Key = "PRI"
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func mysqlColumns(db *gorm.DB, table string) ([]Column, error) {
	var columns []Column
	// SHOW COLUMNS reports the exact declared type, including lengths.
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", strings.ReplaceAll(table, "`", "``"))).Scan(&columns).Error
	return columns, err
}

// DiffTable compares a table with the columns expected of it. A declared type
// matches when the reported type contains it, so varchar(36) accepts
// varchar(36) and "varchar(36) character set utf8mb4" alike.
func DiffTable(db *gorm.DB, table string, expected []ExpectedColumn) (*SchemaDiff, error) {
	actual, err := TableColumns(db, table)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Column, len(actual))
	for _, col := range actual {
		byName[col.Field] = col
	}

	diff := &SchemaDiff{Table: table, Missing: []string{}, Mismatched: []string{}}
	for _, exp := range expected {
		col, ok := byName[strings.ToLower(exp.Name)]
		if !ok {
			diff.Missing = append(diff.Missing, exp.Name)
			continue
		}
		if exp.Type != "" && !strings.Contains(col.Type, exp.Type) {
			diff.Mismatched = append(diff.Mismatched,
				fmt.Sprintf("%s: expected %s, got %s", exp.Name, exp.Type, col.Type))
		}
	}
	return diff, nil
}
