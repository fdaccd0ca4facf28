package checks

import (
	"fmt"

	"media-catalog/core/storage"
	"media-catalog/feature/catalog"

	"go.uber.org/zap"
)

// CheckStructure returns the catalog directories the registry expects but
// that do not exist: one per library, sector and registered media path.
func CheckStructure(store *storage.Store, reg *catalog.Registry) ([]string, error) {
	var missing []string

	check := func(dir string) error {
		ok, err := store.IsDir(dir)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", dir, err)
		}
		if !ok {
			missing = append(missing, dir)
		}
		return nil
	}

	for _, library := range reg.LibraryNames() {
		if err := check(store.LibraryDir(library)); err != nil {
			return nil, err
		}
		lib := reg.Libraries[library]
		for _, sector := range lib.SectorNames() {
			if err := check(store.SectorDir(library, sector)); err != nil {
				return nil, err
			}
			for _, mediaPath := range lib.Sectors[sector] {
				if err := check(store.MediaDir(library, sector, mediaPath)); err != nil {
					return nil, err
				}
			}
		}
	}

	return missing, nil
}

// FixStructure creates the missing directories.
func FixStructure(store *storage.Store, logger *zap.Logger, missing []string) error {
	for _, dir := range missing {
		if err := store.MkdirAll(dir); err != nil {
			logger.Error("Failed to create directory", zap.String("path", dir), zap.Error(err))
			return err
		}
		logger.Info("Created missing directory", zap.String("path", dir))
	}
	return nil
}
