package cmd

import (
	"fmt"

	"media-catalog/core/ledger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history LIBRARY [SECTOR]",
	Short: "List past snapshots recorded in the ledger",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := cmd.Context()
		a, err := newApp(ctx, ledgerMigrate)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireLedger(); err != nil {
			return err
		}

		filter := ledger.Filter{Library: args[0], Limit: limit}
		if len(args) == 2 {
			filter.Sector = args[1]
		}

		records, err := a.ledger.List(ctx, filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No snapshots recorded.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s files\t%s dirs\t%s\n",
				humanize.Time(r.CreatedAt), r.Sector, r.MediaPath,
				humanize.Comma(int64(r.Files)), humanize.Comma(int64(r.Dirs)), r.RootHash)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "Maximum number of snapshots to list (0 for all)")
}
