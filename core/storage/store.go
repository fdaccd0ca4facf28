package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// Store lays out the catalog directory and reads and writes its documents.
type Store struct {
	fs   afero.Fs
	cfg  Config
	root string
}

// NewStore creates a store over fs rooted at cfg.Root.
func NewStore(fs afero.Fs, cfg Config) (*Store, error) {
	root, err := cfg.RootDir()
	if err != nil {
		return nil, err
	}
	if cfg.SeparatorReplacement == "" {
		return nil, fmt.Errorf("separator replacement must not be empty")
	}
	return &Store{fs: fs, cfg: cfg, root: root}, nil
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs { return s.fs }

// Config returns the store configuration.
func (s *Store) Config() Config { return s.cfg }

// Root returns the expanded catalog directory.
func (s *Store) Root() string { return s.root }

// RegistryPath returns the path of the library registry file.
func (s *Store) RegistryPath() string {
	return filepath.Join(s.root, s.cfg.ConfigName)
}

// LibraryDir returns the directory holding a library's sectors.
func (s *Store) LibraryDir(library string) string {
	return filepath.Join(s.root, library)
}

// SectorDir returns the directory holding a sector's media indexes.
func (s *Store) SectorDir(library, sector string) string {
	return filepath.Join(s.root, library, sector)
}

// MediaDir returns the directory holding the index of one media path.
func (s *Store) MediaDir(library, sector, mediaPath string) string {
	return filepath.Join(s.SectorDir(library, sector), s.FlattenMediaPath(mediaPath))
}

// IndexPath returns the persisted snapshot location of one media path.
func (s *Store) IndexPath(library, sector, mediaPath string) string {
	return filepath.Join(s.MediaDir(library, sector, mediaPath), s.cfg.IndexName)
}

// FlattenMediaPath turns a media path into a single directory name.
func (s *Store) FlattenMediaPath(mediaPath string) string {
	return strings.ReplaceAll(filepath.ToSlash(mediaPath), "/", s.cfg.SeparatorReplacement)
}

// UnflattenMediaPath reverses FlattenMediaPath.
func (s *Store) UnflattenMediaPath(name string) string {
	return filepath.FromSlash(strings.ReplaceAll(name, s.cfg.SeparatorReplacement, "/"))
}

// NormalizeMediaPath cleans a media path and makes it absolute.
func NormalizeMediaPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty media path")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	return filepath.Clean(abs), nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// IsDir reports whether path exists and is a directory.
func (s *Store) IsDir(path string) (bool, error) {
	ok, err := afero.IsDir(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return ok, err
}

// MkdirAll creates path and any missing parents.
func (s *Store) MkdirAll(path string) error {
	return s.fs.MkdirAll(path, 0o755)
}

// RemoveAll removes path and everything below it.
func (s *Store) RemoveAll(path string) error {
	return s.fs.RemoveAll(path)
}

// ListDirs returns the names of the subdirectories of path, sorted.
func (s *Store) ListDirs(path string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns the contents of path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// ReadJSON decodes the JSON document at path into v. Comments and trailing
// commas are accepted.
func (s *Store) ReadJSON(path string, v any) error {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON to path atomically.
func (s *Store) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.WriteFile(path, data)
}

// WriteFile writes data to a temporary file next to path and renames it into
// place, so readers never observe a partially written file.
func (s *Store) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() { _ = s.fs.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return s.fs.Rename(tmpPath, path)
}
