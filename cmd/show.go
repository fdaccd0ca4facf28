package cmd

import (
	"fmt"
	"io"

	"media-catalog/core/codec"
	"media-catalog/core/entry"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show LIBRARY SECTOR PATH",
	Short: "Print the stored snapshot of a media path",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd.Context(), ledgerOff)
		if err != nil {
			return err
		}
		defer a.close()

		root, err := a.indexer.Load(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			doc, err := codec.MarshalIndent(root, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(doc))
			return nil
		}

		fmt.Fprintln(out, args[2])
		writeTree(out, root, "")
		return nil
	},
}

// writeTree prints the children of n, leaves first, one per line.
func writeTree(w io.Writer, n *entry.Node, prefix string) {
	children := n.Children()
	for i, child := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}

		switch c := child.(type) {
		case *entry.Leaf:
			fmt.Fprintf(w, "%s%s%s\n", prefix, branch, c.Name())
		case *entry.Node:
			name, _ := c.Name()
			fmt.Fprintf(w, "%s%s%s/\n", prefix, branch, name)
			writeTree(w, c, prefix+indent)
		}
	}
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("json", false, "Print the snapshot document instead of a tree")
}
