package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds configuration for the catalog directory.
type Config struct {
	// Root is the catalog directory. A leading ~ expands to the home directory.
	Root string `mapstructure:"root" default:"~/.media-catalog"`
	// ConfigName is the file name of the library registry inside Root.
	ConfigName string `mapstructure:"config_name" default:"config.json"`
	// MetadataName is the marker file written into registered media.
	MetadataName string `mapstructure:"metadata_name" default:".catalog-metadata"`
	// SeparatorReplacement replaces path separators when a media path is
	// flattened into a single directory name.
	SeparatorReplacement string `mapstructure:"separator_replacement" default:"+"`
	// IndexName is the file name of a persisted snapshot.
	IndexName string `mapstructure:"index_name" default:"index.json"`
}

// RootDir returns Root with a leading ~ expanded.
func (c Config) RootDir() (string, error) {
	root := c.Root
	if root == "" {
		return "", fmt.Errorf("storage root is not set")
	}
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}
	return filepath.Clean(root), nil
}
