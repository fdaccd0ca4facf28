package cmd

import (
	"errors"
	"fmt"

	"media-catalog/core/codec"
	"media-catalog/core/ledger"
	"media-catalog/core/storage"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index LIBRARY SECTOR PATH",
	Short: "Snapshot a registered media path",
	Long: `Walks the media mounted at PATH and stores its snapshot in the catalog,
replacing the previous one. With --verbose the snapshot document is printed.
When the ledger is enabled, the result is compared with the previous snapshot.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		ctx := cmd.Context()
		a, err := newApp(ctx, ledgerMigrate)
		if err != nil {
			return err
		}
		defer a.close()

		var previous *ledger.SnapshotRecord
		if a.ledger != nil {
			if normalized, err := storage.NormalizeMediaPath(args[2]); err == nil {
				previous, err = a.ledger.Latest(ctx, args[0], args[1], normalized)
				if err != nil && !errors.Is(err, ledger.ErrNotFound) {
					a.logger.Warn("Failed to look up previous snapshot", zap.Error(err))
				}
			}
		}

		res, err := a.indexer.Index(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if verbose {
			doc, err := codec.MarshalIndent(res.Snapshot.Root, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(doc))
		}

		snap := res.Snapshot
		fmt.Fprintf(out, "Indexed %s: %s files in %s directories\n",
			snap.Provenance.MediaPath, humanize.Comma(int64(snap.Files)), humanize.Comma(int64(snap.Dirs)))
		if previous != nil && res.Record != nil {
			if previous.RootHash == res.Record.RootHash {
				fmt.Fprintf(out, "Unchanged since the snapshot taken %s\n", humanize.Time(previous.CreatedAt))
			} else {
				fmt.Fprintf(out, "Changed since the snapshot taken %s (%s files, %s directories)\n",
					humanize.Time(previous.CreatedAt),
					humanize.Comma(int64(previous.Files)), humanize.Comma(int64(previous.Dirs)))
			}
		}
		if len(snap.Skipped) > 0 {
			a.logger.Warn("Some directories could not be read and are not part of the snapshot",
				zap.Strings("skipped", snap.Skipped))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolP("verbose", "v", false, "Print the snapshot document")
}
