package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errVerifyFailed = errors.New("catalog verification found problems")

const (
	checkStructure = "structure"
	checkMarkers   = "markers"
	checkIndexes   = "indexes"
	checkLedger    = "ledger"
)

var fixFlag bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Perform integrity checks on the catalog",
	Long: `Checks that the catalog directories, media markers, snapshot documents and
ledger schema agree with the catalog config. Without a subcommand every check runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), checkStructure, checkMarkers, checkIndexes, checkLedger)
	},
}

// verifyStructureCmd represents the verify structure command
var verifyStructureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix library, sector and media directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), checkStructure)
	},
}

// verifyMarkersCmd represents the verify markers command
var verifyMarkersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Check and fix metadata markers on mounted media",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), checkMarkers)
	},
}

// verifyIndexesCmd represents the verify indexes command
var verifyIndexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Check stored snapshot documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), checkIndexes)
	},
}

// verifyLedgerCmd represents the verify ledger command
var verifyLedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Check and migrate the snapshot ledger schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), checkLedger)
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.AddCommand(verifyStructureCmd, verifyMarkersCmd, verifyIndexesCmd, verifyLedgerCmd)

	verifyCmd.PersistentFlags().BoolVar(&fixFlag, "fix", false, "Repair what can be repaired")
}

func runVerify(ctx context.Context, only ...string) error {
	run := make(map[string]bool, len(only))
	for _, c := range only {
		run[c] = true
	}

	mode := ledgerOff
	if run[checkLedger] {
		mode = ledgerOpen
	}
	a, err := newApp(ctx, mode)
	if err != nil {
		return err
	}
	defer a.close()

	logg := a.logger
	svc := a.integrity
	problems := 0

	if run[checkStructure] {
		logg.Info("Checking catalog structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing directories detected", zap.Strings("missing", missing))
			if fixFlag {
				logg.Info("Fixing missing directories...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run with --fix to create missing directories.")
				problems += len(missing)
			}
		}
	}

	if run[checkMarkers] {
		logg.Info("Checking media markers...")
		issues, err := svc.CheckMarkers(ctx)
		if err != nil {
			return fmt.Errorf("marker check failed: %w", err)
		}

		if len(issues) == 0 {
			logg.Info("Media markers are intact.")
		} else {
			for _, issue := range issues {
				logg.Warn("Marker problem",
					zap.String("library", issue.Library),
					zap.String("sector", issue.Sector),
					zap.String("path", issue.Path),
					zap.String("problem", issue.Problem),
					zap.String("found", issue.Found))
			}
			if fixFlag {
				logg.Info("Fixing media markers...")
				if err := svc.FixMarkers(ctx, issues); err != nil {
					return fmt.Errorf("failed to fix markers: %w", err)
				}
			} else {
				logg.Info("Run with --fix to rewrite markers on mounted media.")
				problems += len(issues)
			}
		}
	}

	if run[checkIndexes] {
		logg.Info("Checking snapshot documents...")
		report, err := svc.CheckIndexes(ctx)
		if err != nil {
			return fmt.Errorf("index check failed: %w", err)
		}

		if report.OK() {
			logg.Info("Snapshot documents are intact.")
		} else {
			if len(report.Missing) > 0 {
				logg.Warn("Media never indexed", zap.Strings("documents", report.Missing))
			}
			if len(report.Malformed) > 0 {
				logg.Error("Malformed snapshot documents", zap.Strings("documents", report.Malformed))
			}
			for _, o := range report.Orphaned {
				logg.Warn("Snapshot directory without registered media",
					zap.String("library", o.Library),
					zap.String("sector", o.Sector),
					zap.String("media_path", o.MediaPath),
					zap.String("dir", o.Dir))
			}
			problems += len(report.Missing) + len(report.Malformed) + len(report.Orphaned)
		}
	}

	if run[checkLedger] {
		if a.db == nil {
			logg.Warn("Skipping ledger check: no database connection")
		} else {
			p, err := verifyLedger(ctx, a)
			if err != nil {
				return err
			}
			problems += p
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d unresolved", errVerifyFailed, problems)
	}
	return nil
}

func verifyLedger(ctx context.Context, a *app) (int, error) {
	logg := a.logger
	svc := a.integrity

	logg.Info("Checking ledger schema...")
	report, err := svc.CheckLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledger check failed: %w", err)
	}

	if report.Matched {
		logg.Info("Ledger schema matches expected definition.", zap.String("driver", report.Driver))
		return 0, nil
	}

	logg.Warn("Ledger schema mismatches found", zap.String("driver", report.Driver))
	for table, tblReport := range report.Tables {
		if tblReport.Status != "ok" {
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
	}
	for _, e := range report.Errors {
		logg.Error("Inspection Error", zap.String("error", e))
	}

	if !fixFlag {
		logg.Info("Run with --fix to migrate the ledger schema.")
		return 1, nil
	}
	if err := svc.FixLedger(ctx); err != nil {
		return 0, fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return 0, nil
}
