package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"media-catalog/core/sectordiff"
	"media-catalog/core/storage"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Service manages libraries, sectors and media in the catalog registry.
type Service struct {
	store   *storage.Store
	media   afero.Fs
	version string
	logger  *zap.Logger
}

// NewService creates a new catalog service. Media markers are written
// through media; registry and index directories through store.
func NewService(store *storage.Store, media afero.Fs, version string, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		media:   media,
		version: version,
		logger:  logger,
	}
}

// Store returns the catalog store the service writes to.
func (s *Service) Store() *storage.Store {
	return s.store
}

// Load reads the registry and warns when its version differs from ours.
func (s *Service) Load() (*Registry, error) {
	path := s.store.RegistryPath()

	var reg Registry
	if err := s.store.ReadJSON(path, &reg); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %v", ErrPermission, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	switch {
	case reg.Version == "":
		s.logger.Warn("Catalog config does not specify a version", zap.String("path", path))
	case reg.Version != s.version:
		s.logger.Warn("Loading a catalog config from another version",
			zap.String("config_version", reg.Version),
			zap.String("version", s.version))
	}

	if reg.Libraries == nil {
		reg.Libraries = make(map[string]*Library)
	}
	for name, lib := range reg.Libraries {
		if lib == nil {
			return nil, fmt.Errorf("%w: library %q is not an object", ErrInvalidConfig, name)
		}
		if lib.Sectors == nil {
			lib.Sectors = make(map[string][]string)
		}
	}

	return &reg, nil
}

func (s *Service) save(reg *Registry) error {
	if err := s.store.WriteJSON(s.store.RegistryPath(), reg); err != nil {
		return fsError("write catalog config", err)
	}
	return nil
}

func (s *Service) freshRegistry() *Registry {
	return &Registry{Version: s.version, Libraries: make(map[string]*Library)}
}

// CreateLibrary adds an empty library. A missing registry is initialized; a
// corrupted one is replaced only when force is set.
func (s *Service) CreateLibrary(name, comparator string, force bool) error {
	if err := validateName("library", name); err != nil {
		return err
	}
	if comparator == "" {
		comparator = sectordiff.ComparatorFilename
	}
	if _, err := sectordiff.ComparatorFor(comparator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	reg, err := s.Load()
	switch {
	case errors.Is(err, ErrConfigNotFound):
		s.logger.Info("Initializing catalog config", zap.String("path", s.store.RegistryPath()))
		reg = s.freshRegistry()
	case errors.Is(err, ErrInvalidConfig) && force:
		s.logger.Warn("Forced to recreate corrupted catalog config", zap.Error(err))
		reg = s.freshRegistry()
	case errors.Is(err, ErrInvalidConfig):
		return fmt.Errorf("%w (fix it manually or create the library with --force)", err)
	case err != nil:
		return err
	}

	if _, exists := reg.Libraries[name]; exists {
		return fmt.Errorf("%w: library %q already exists, delete it first to reuse the name", ErrStateConflict, name)
	}
	reg.Libraries[name] = &Library{
		Sectors:    make(map[string][]string),
		Comparator: comparator,
	}

	if err := s.store.MkdirAll(s.store.LibraryDir(name)); err != nil {
		return fsError("create library directory", err)
	}
	if err := s.save(reg); err != nil {
		return err
	}

	s.logger.Info("Created library", zap.String("library", name), zap.String("comparator", comparator))
	return nil
}

// ListLibraries returns the registered library names in ascending order.
func (s *Service) ListLibraries() ([]string, error) {
	reg, err := s.Load()
	if err != nil {
		return nil, err
	}
	return reg.LibraryNames(), nil
}

// Library returns one registered library.
func (s *Service) Library(name string) (*Library, error) {
	reg, err := s.Load()
	if err != nil {
		return nil, err
	}
	lib, ok := reg.Libraries[name]
	if !ok {
		return nil, fmt.Errorf("%w: library %q is not registered", ErrInvalidConfig, name)
	}
	return lib, nil
}

// DeleteLibrary removes a library from the registry along with its index
// directory.
func (s *Service) DeleteLibrary(name string) error {
	reg, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := reg.Libraries[name]; !ok {
		return fmt.Errorf("%w: library %q does not exist", ErrStateConflict, name)
	}
	delete(reg.Libraries, name)
	if err := s.save(reg); err != nil {
		return err
	}

	dir := s.store.LibraryDir(name)
	exists, err := s.store.IsDir(dir)
	if err != nil {
		return fsError("inspect library directory", err)
	}
	if !exists {
		s.logger.Warn("Library directory does not exist. Possible data loss condition", zap.String("path", dir))
	} else if err := s.store.RemoveAll(dir); err != nil {
		return fsError("remove library directory", err)
	}

	s.logger.Info("Deleted library", zap.String("library", name))
	return nil
}

// RegisterSector adds an empty sector to a library.
func (s *Service) RegisterSector(library, sector string) error {
	if err := validateName("sector", sector); err != nil {
		return err
	}

	reg, err := s.Load()
	if err != nil {
		return err
	}
	lib, ok := reg.Libraries[library]
	if !ok {
		return fmt.Errorf("%w: library %q is not registered", ErrInvalidConfig, library)
	}
	if _, exists := lib.Sectors[sector]; exists {
		return fmt.Errorf("%w: sector %q already exists in library %q", ErrStateConflict, sector, library)
	}

	dir := s.store.SectorDir(library, sector)
	if exists, _ := s.store.IsDir(dir); exists {
		s.logger.Info("Sector index directory already exists", zap.String("path", dir))
	} else if err := s.store.MkdirAll(dir); err != nil {
		return fsError("create sector directory", err)
	}

	lib.Sectors[sector] = []string{}
	if err := s.save(reg); err != nil {
		return err
	}

	s.logger.Info("Registered sector", zap.String("library", library), zap.String("sector", sector))
	return nil
}

// RegisterMedia registers a media path in a sector and marks it with the
// metadata file. It returns the normalized path that was registered.
func (s *Service) RegisterMedia(library, sector, mediaPath string) (string, error) {
	normalized, err := storage.NormalizeMediaPath(mediaPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if sep := s.store.Config().SeparatorReplacement; strings.Contains(normalized, sep) {
		return "", fmt.Errorf("%w: media path cannot contain %q: %s", ErrInvalidArgument, sep, normalized)
	}

	reg, err := s.Load()
	if err != nil {
		return "", err
	}
	lib, ok := reg.Libraries[library]
	if !ok {
		return "", fmt.Errorf("%w: library %q is not registered", ErrInvalidConfig, library)
	}
	if _, ok := lib.Sectors[sector]; !ok {
		return "", fmt.Errorf("%w: sector %q not found in library %q, register it first", ErrStateConflict, sector, library)
	}

	marker := filepath.Join(normalized, s.store.Config().MetadataName)
	if exists, _ := afero.Exists(s.media, marker); exists {
		return "", fmt.Errorf("%w: %s is already registered", ErrStateConflict, normalized)
	}

	sectorDir := s.store.SectorDir(library, sector)
	if exists, _ := s.store.IsDir(sectorDir); !exists {
		return "", fmt.Errorf("%w: missing directory for sector %q: %s", ErrStateConflict, sector, sectorDir)
	}

	if err := afero.WriteFile(s.media, marker, []byte(sector), 0o644); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("%w: cannot create %s, check the media path", ErrMetadataNotFound, marker)
		default:
			return "", fsError("write metadata marker", err)
		}
	}

	if err := s.store.MkdirAll(s.store.MediaDir(library, sector, normalized)); err != nil {
		_ = s.media.Remove(marker)
		return "", fsError("create media index directory", err)
	}

	lib.Sectors[sector] = append(lib.Sectors[sector], normalized)
	if err := s.save(reg); err != nil {
		_ = s.media.Remove(marker)
		return "", err
	}

	s.logger.Info("Registered media",
		zap.String("library", library),
		zap.String("sector", sector),
		zap.String("path", normalized))
	return normalized, nil
}

// RequireMedia checks that mediaPath is registered in the sector and returns
// the library along with the normalized path.
func (s *Service) RequireMedia(library, sector, mediaPath string) (*Library, string, error) {
	normalized, err := storage.NormalizeMediaPath(mediaPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	lib, err := s.Library(library)
	if err != nil {
		return nil, "", err
	}
	if _, ok := lib.Sectors[sector]; !ok {
		return nil, "", fmt.Errorf("%w: sector %q is not registered in library %q", ErrInvalidConfig, sector, library)
	}
	if !lib.HasMedia(sector, normalized) {
		return nil, "", fmt.Errorf("%w: %s is not a registered media in sector %q", ErrStateConflict, normalized, sector)
	}
	return lib, normalized, nil
}

func validateName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: %s name is empty", ErrInvalidArgument, kind)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %s name %q is reserved", ErrInvalidArgument, kind, name)
	case strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: %s name cannot contain the path separator: %q", ErrInvalidArgument, kind, name)
	}
	return nil
}
