package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"media-catalog/core/codec"
	"media-catalog/core/storage"
	"media-catalog/feature/catalog"
)

// IndexReport lists problems with persisted snapshot documents.
type IndexReport struct {
	// Missing are registered media without a document.
	Missing []string `json:"missing"`
	// Malformed are documents that cannot be decoded.
	Malformed []string `json:"malformed"`
	// Orphaned are media directories in the catalog with no registered media.
	Orphaned []OrphanedIndex `json:"orphaned"`
}

// OrphanedIndex is a media directory left behind in a sector, for example by
// a media path that was unregistered by hand.
type OrphanedIndex struct {
	Library string `json:"library"`
	Sector  string `json:"sector"`
	// MediaPath is the media path the directory name was flattened from.
	MediaPath string `json:"media_path"`
	Dir       string `json:"dir"`
}

// OK reports whether no problem was found.
func (r *IndexReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Malformed) == 0 && len(r.Orphaned) == 0
}

// CheckIndexes decodes every persisted snapshot of every registered media path.
func CheckIndexes(store *storage.Store, reg *catalog.Registry) (*IndexReport, error) {
	report := &IndexReport{
		Missing:   []string{},
		Malformed: []string{},
		Orphaned:  []OrphanedIndex{},
	}

	for _, library := range reg.LibraryNames() {
		lib := reg.Libraries[library]
		for _, sector := range lib.SectorNames() {
			registered := make(map[string]struct{})
			for _, mediaPath := range lib.Sectors[sector] {
				registered[store.FlattenMediaPath(mediaPath)] = struct{}{}

				path := store.IndexPath(library, sector, mediaPath)
				data, err := store.ReadFile(path)
				if errors.Is(err, fs.ErrNotExist) {
					report.Missing = append(report.Missing, path)
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("failed to read %s: %w", path, err)
				}
				if _, err := codec.UnmarshalSnapshot(data); err != nil {
					report.Malformed = append(report.Malformed, path)
				}
			}

			dirs, err := store.ListDirs(store.SectorDir(library, sector))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			for _, d := range dirs {
				if _, ok := registered[d]; !ok {
					report.Orphaned = append(report.Orphaned, OrphanedIndex{
						Library:   library,
						Sector:    sector,
						MediaPath: store.UnflattenMediaPath(d),
						Dir:       filepath.Join(store.SectorDir(library, sector), d),
					})
				}
			}
		}
	}

	return report, nil
}
