package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"media-catalog/core/codec"
	"media-catalog/core/entry"
	"media-catalog/core/ledger"
	"media-catalog/core/logger"
	"media-catalog/core/snapshot"
	"media-catalog/feature/catalog"

	"go.uber.org/zap"
)

// ErrNotIndexed is returned when a registered media path has no persisted snapshot.
var ErrNotIndexed = errors.New("media has not been indexed")

// Result describes one completed index run.
type Result struct {
	Snapshot     *snapshot.Snapshot
	DocumentPath string
	Document     []byte
	// Record is nil when the ledger is disabled or recording failed.
	Record *ledger.SnapshotRecord
}

// Service snapshots registered media and persists the result.
type Service struct {
	catalog  *catalog.Service
	cfg      snapshot.Config
	version  string
	recorder ledger.Recorder
	logger   *zap.Logger
}

// NewService creates a new indexer service. recorder may be nil.
func NewService(cat *catalog.Service, cfg snapshot.Config, version string, recorder ledger.Recorder, logger *zap.Logger) *Service {
	return &Service{
		catalog:  cat,
		cfg:      cfg,
		version:  version,
		recorder: recorder,
		logger:   logger,
	}
}

// Index snapshots a registered media path and writes its document to the
// catalog, replacing any previous one.
func (s *Service) Index(ctx context.Context, library, sector, mediaPath string) (*Result, error) {
	_, normalized, err := s.catalog.RequireMedia(library, sector, mediaPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := s.catalog.Store()
	log := logger.ForSector(s.logger, library, sector)
	log.Info("Indexing media", zap.String("path", normalized))

	builder := snapshot.NewBuilder(s.version, s.cfg,
		snapshot.WithIgnore(store.Config().MetadataName),
		snapshot.WithLogger(log),
	)
	snap, err := builder.Build(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", normalized, err)
	}
	snap.Provenance = snapshot.Provenance{Library: library, Sector: sector, MediaPath: normalized}

	doc, err := codec.Marshal(snap.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := store.IndexPath(library, sector, normalized)
	if err := store.WriteFile(path, doc); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("Wrote snapshot",
		zap.String("document", path),
		zap.Int("files", snap.Files),
		zap.Int("dirs", snap.Dirs),
		zap.Int("skipped", len(snap.Skipped)))

	res := &Result{Snapshot: snap, DocumentPath: path, Document: doc}

	if s.recorder != nil {
		rec, err := s.recorder.Record(ctx, snap, path)
		if err != nil {
			// The document is already in place; the ledger only tracks history.
			log.Warn("Failed to record snapshot in ledger", zap.Error(err))
		} else {
			res.Record = rec
		}
	}

	return res, nil
}

// Load reads the persisted snapshot of a registered media path.
func (s *Service) Load(library, sector, mediaPath string) (*entry.Node, error) {
	_, normalized, err := s.catalog.RequireMedia(library, sector, mediaPath)
	if err != nil {
		return nil, err
	}
	return s.LoadDocument(library, sector, normalized)
}

// LoadDocument reads a persisted snapshot without checking the registry.
// mediaPath must already be normalized.
func (s *Service) LoadDocument(library, sector, mediaPath string) (*entry.Node, error) {
	store := s.catalog.Store()
	path := store.IndexPath(library, sector, mediaPath)

	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotIndexed, mediaPath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	root, err := codec.UnmarshalSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}
