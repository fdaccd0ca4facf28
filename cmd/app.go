package cmd

import (
	"context"
	"fmt"

	"media-catalog/core/config"
	"media-catalog/core/database"
	"media-catalog/core/ledger"
	"media-catalog/core/logger"
	"media-catalog/core/storage"
	"media-catalog/feature/catalog"
	"media-catalog/feature/compare"
	"media-catalog/feature/indexer"
	"media-catalog/feature/integrity"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ledgerMode selects how much of the ledger a command needs.
type ledgerMode int

const (
	ledgerOff ledgerMode = iota
	// ledgerOpen connects without touching the schema.
	ledgerOpen
	// ledgerMigrate connects and brings the schema up to date.
	ledgerMigrate
)

// app wires the services used by the commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	store   *storage.Store
	catalog *catalog.Service

	// db and ledger are nil when the ledger is disabled or unreachable.
	db     *gorm.DB
	ledger *ledger.Ledger

	indexer   *indexer.Service
	compare   *compare.Service
	integrity *integrity.Service
}

func newApp(ctx context.Context, mode ledgerMode) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	store, err := storage.NewStore(afero.NewOsFs(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	media := afero.NewOsFs()
	a := &app{
		cfg:     cfg,
		logger:  logg,
		store:   store,
		catalog: catalog.NewService(store, media, Version, logg),
	}

	if mode != ledgerOff && cfg.Database.Enabled {
		// Connect to Database (Optional)
		if db, err := a.connect(ctx, mode); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			a.db = db
			a.ledger = ledger.New(db)
		}
	}

	var recorder ledger.Recorder
	if a.ledger != nil {
		recorder = a.ledger
	}
	a.indexer = indexer.NewService(a.catalog, cfg.Index, Version, recorder, logg)
	a.compare = compare.NewService(a.catalog, a.indexer, logg)
	a.integrity = integrity.NewService(a.catalog, media, a.db, logg)

	return a, nil
}

func (a *app) connect(ctx context.Context, mode ledgerMode) (*gorm.DB, error) {
	dbCfg := a.cfg.Database.ResolveName(a.store.Root())
	if dbCfg.Driver == database.DriverSQLite {
		if err := a.store.MkdirAll(a.store.Root()); err != nil {
			return nil, err
		}
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, err
	}
	if mode == ledgerMigrate {
		if err := ledger.New(db).Migrate(ctx); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	return db, nil
}

// requireLedger fails commands that cannot run without the ledger.
func (a *app) requireLedger() error {
	if a.ledger == nil {
		return fmt.Errorf("snapshot ledger is not available (database.enabled=%t)", a.cfg.Database.Enabled)
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
