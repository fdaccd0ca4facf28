package compare

import (
	"context"
	"errors"
	"fmt"

	"media-catalog/core/logger"
	"media-catalog/core/sectordiff"
	"media-catalog/feature/catalog"
	"media-catalog/feature/indexer"

	"go.uber.org/zap"
)

// Result is the comparison of all sectors of one library.
type Result struct {
	Library    string             `json:"library"`
	Comparator string             `json:"comparator"`
	Report     *sectordiff.Report `json:"report"`
	// Unindexed lists, per sector, registered media without a snapshot.
	// Their contents are not part of the report.
	Unindexed map[string][]string `json:"unindexed,omitempty"`
}

// Service compares the persisted snapshots of a library's sectors.
type Service struct {
	catalog *catalog.Service
	indexer *indexer.Service
	logger  *zap.Logger
}

// NewService creates a new compare service.
func NewService(cat *catalog.Service, idx *indexer.Service, logger *zap.Logger) *Service {
	return &Service{
		catalog: cat,
		indexer: idx,
		logger:  logger,
	}
}

// Compare flattens every sector of library into an item set with the
// library's comparator and diffs the sets.
func (s *Service) Compare(ctx context.Context, library string) (*Result, error) {
	lib, err := s.catalog.Library(library)
	if err != nil {
		return nil, err
	}

	comparator, err := sectordiff.ComparatorFor(lib.Comparator)
	if err != nil {
		return nil, fmt.Errorf("%w: library %q: %v", catalog.ErrInvalidConfig, library, err)
	}

	res := &Result{
		Library:    library,
		Comparator: comparator.Name(),
		Unindexed:  make(map[string][]string),
	}

	sets := make(map[string]sectordiff.ItemSet, len(lib.Sectors))
	for _, sector := range lib.SectorNames() {
		log := logger.ForSector(s.logger, library, sector)
		set := make(sectordiff.ItemSet)

		for _, mediaPath := range lib.Sectors[sector] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			root, err := s.indexer.LoadDocument(library, sector, mediaPath)
			if errors.Is(err, indexer.ErrNotIndexed) {
				log.Warn("Media has no snapshot; run index first", zap.String("path", mediaPath))
				res.Unindexed[sector] = append(res.Unindexed[sector], mediaPath)
				continue
			}
			if err != nil {
				return nil, err
			}

			for item := range comparator.Items(root) {
				set.Add(item)
			}
		}

		sets[sector] = set
	}

	res.Report = sectordiff.Compare(sets)
	if len(res.Unindexed) == 0 {
		res.Unindexed = nil
	}
	return res, nil
}
