// Package config provides configuration management for the media catalog.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section.
//
// # Configuration Structure
//
//   - Storage: catalog root directory and file names inside it
//   - Index: symbolic link and unreadable directory policies
//   - Log: logging level and format
//   - Database: snapshot ledger connection
//
// Environment variables map to keys by replacing dots with underscores, so
// STORAGE_ROOT sets storage.root and INDEX_FOLLOW_SYMLINKS sets
// index.follow_symlinks.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Storage.Root)
package config
