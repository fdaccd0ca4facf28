package cmd

import (
	"fmt"

	"media-catalog/core/sectordiff"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// createlibCmd represents the createlib command
var createlibCmd = &cobra.Command{
	Use:   "createlib NAME",
	Short: "Create a library",
	Long: `Creates a library in the catalog config, initializing the config if it
does not exist yet. With --force a corrupted config is replaced by a fresh one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		comparator, _ := cmd.Flags().GetString("comparator")

		a, err := newApp(cmd.Context(), ledgerOff)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.catalog.CreateLibrary(args[0], comparator, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created library %s\n", args[0])
		return nil
	},
}

// lslibCmd represents the lslib command
var lslibCmd = &cobra.Command{
	Use:   "lslib",
	Short: "List libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), ledgerOff)
		if err != nil {
			return err
		}
		defer a.close()

		reg, err := a.catalog.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range reg.LibraryNames() {
			lib := reg.Libraries[name]
			media := 0
			for _, paths := range lib.Sectors {
				media += len(paths)
			}
			fmt.Fprintf(out, "%s\t%s sectors\t%s media\t%s\n",
				name, humanize.Comma(int64(len(lib.Sectors))), humanize.Comma(int64(media)), lib.Comparator)
		}
		return nil
	},
}

// deletelibCmd represents the deletelib command
var deletelibCmd = &cobra.Command{
	Use:   "deletelib NAME",
	Short: "Delete a library and its snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, ledgerMigrate)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.catalog.DeleteLibrary(args[0]); err != nil {
			return err
		}

		if a.ledger != nil {
			removed, err := a.ledger.DeleteLibrary(ctx, args[0])
			if err != nil {
				a.logger.Warn("Failed to remove library history", zap.String("library", args[0]), zap.Error(err))
			} else {
				a.logger.Debug("Removed library history", zap.String("library", args[0]), zap.Int64("records", removed))
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted library %s\n", args[0])
		return nil
	},
}

// regsectorCmd represents the regsector command
var regsectorCmd = &cobra.Command{
	Use:   "regsector LIBRARY SECTOR",
	Short: "Register a sector in a library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), ledgerOff)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.catalog.RegisterSector(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered sector %s in %s\n", args[1], args[0])
		return nil
	},
}

// regmediaCmd represents the regmedia command
var regmediaCmd = &cobra.Command{
	Use:   "regmedia LIBRARY SECTOR PATH",
	Short: "Register a media path in a sector",
	Long: `Registers the directory where a medium is mounted. A metadata marker naming
the sector is written to the medium so it cannot be registered twice.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), ledgerOff)
		if err != nil {
			return err
		}
		defer a.close()

		normalized, err := a.catalog.RegisterMedia(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s/%s\n", normalized, args[0], args[1])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(createlibCmd, lslibCmd, deletelibCmd, regsectorCmd, regmediaCmd)

	createlibCmd.Flags().Bool("force", false, "Recreate the catalog config if it is corrupted")
	createlibCmd.Flags().String("comparator", sectordiff.ComparatorFilename, "Item identity used by compare (filename, path)")
}
