package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"media-catalog/feature/compare"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare LIBRARY",
	Short: "Compare the sectors of a library",
	Long: `Flattens the stored snapshots of every sector into a set of items and lists,
for each sector, the items other sectors hold that it lacks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		a, err := newApp(ctx, ledgerOff)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.compare.Compare(ctx, args[0])
		if err != nil {
			return err
		}

		a.logger.Debug("Compared sectors",
			zap.String("library", res.Library),
			zap.Int("sectors", len(res.Report.DiffBins)),
			zap.Int("missing", res.Report.Missing()))

		out := cmd.OutOrStdout()
		if jsonOutput {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		writeComparison(out, res)
		return nil
	},
}

func writeComparison(w io.Writer, res *compare.Result) {
	report := res.Report
	fmt.Fprintf(w, "=== %s (by %s) ===\n", res.Library, res.Comparator)
	if report.Largest == nil {
		fmt.Fprintln(w, "No sectors.")
		return
	}

	fmt.Fprintf(w, "Largest sector: %s (%s items)\n", report.Largest.Name, humanize.Comma(int64(report.Largest.Count)))
	fmt.Fprintf(w, "Smallest sector: %s (%s items)\n", report.Smallest.Name, humanize.Comma(int64(report.Smallest.Count)))

	for _, sector := range report.DiffBins.Sectors() {
		bin := report.DiffBins[sector]
		fmt.Fprintf(w, "\n%s is missing %s items\n", sector, humanize.Comma(int64(len(bin))))
		for _, p := range bin {
			fmt.Fprintf(w, "  %s\t(in %s)\n", p.Item, p.Sector)
		}
	}

	if len(res.Unindexed) == 0 {
		return
	}
	sectors := make([]string, 0, len(res.Unindexed))
	for sector := range res.Unindexed {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	fmt.Fprintln(w, "\nNot indexed (run index first):")
	for _, sector := range sectors {
		for _, path := range res.Unindexed[sector] {
			fmt.Fprintf(w, "  %s\t%s\n", sector, path)
		}
	}
}

func init() {
	RootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Bool("json", false, "Print the report as JSON")
}
