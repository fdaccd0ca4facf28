package integrity

import (
	"context"
	"fmt"

	"media-catalog/feature/catalog"
	"media-catalog/feature/integrity/checks"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	catalog *catalog.Service
	media   afero.Fs
	db      *gorm.DB
	logger  *zap.Logger
}

// NewService creates a new integrity service. db may be nil when the ledger
// is disabled.
func NewService(cat *catalog.Service, media afero.Fs, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		catalog: cat,
		media:   media,
		db:      db,
		logger:  logger,
	}
}

// CheckStructure returns a list of missing catalog directories.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	reg, err := s.catalog.Load()
	if err != nil {
		return nil, err
	}
	return checks.CheckStructure(s.catalog.Store(), reg)
}

// FixStructure creates the missing directories.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(s.catalog.Store(), s.logger, missing)
}

// CheckMarkers returns registered media whose metadata marker is wrong.
func (s *Service) CheckMarkers(ctx context.Context) ([]checks.MarkerIssue, error) {
	reg, err := s.catalog.Load()
	if err != nil {
		return nil, err
	}
	return checks.CheckMarkers(s.media, s.catalog.Store().Config().MetadataName, reg)
}

// FixMarkers rewrites the markers of reachable media.
func (s *Service) FixMarkers(ctx context.Context, issues []checks.MarkerIssue) error {
	return checks.FixMarkers(s.media, s.catalog.Store().Config().MetadataName, s.logger, issues)
}

// CheckIndexes returns missing, malformed and orphaned snapshot documents.
func (s *Service) CheckIndexes(ctx context.Context) (*checks.IndexReport, error) {
	reg, err := s.catalog.Load()
	if err != nil {
		return nil, err
	}
	return checks.CheckIndexes(s.catalog.Store(), reg)
}

// CheckLedger verifies the ledger table schema.
func (s *Service) CheckLedger(ctx context.Context) (*checks.LedgerReport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("ledger is disabled")
	}
	return checks.CheckLedger(ctx, s.db)
}

// FixLedger migrates the ledger table.
func (s *Service) FixLedger(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("ledger is disabled")
	}
	if err := checks.FixLedger(ctx, s.db); err != nil {
		return err
	}
	s.logger.Info("Migrated ledger schema")
	return nil
}
