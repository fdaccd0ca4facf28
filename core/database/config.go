package database

import "path/filepath"

const (
	// DriverSQLite stores the ledger in a local sqlite file.
	DriverSQLite = "sqlite"
	// DriverMySQL stores the ledger in a MySQL database.
	DriverMySQL = "mysql"
)

// Config holds configuration for the database connection.
type Config struct {
	// Enabled turns the snapshot ledger on or off.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Name is the sqlite file or the MySQL database name. An empty sqlite
	// name places the file in the catalog root.
	Name string `mapstructure:"name" default:""`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// DefaultLedgerName is the sqlite file name used when Name is empty.
const DefaultLedgerName = "ledger.db"

// ResolveName fills in the sqlite file location under root when none is set.
func (c Config) ResolveName(root string) Config {
	if c.Driver == DriverSQLite && c.Name == "" {
		c.Name = filepath.Join(root, DefaultLedgerName)
	}
	return c
}
