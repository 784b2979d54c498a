package main

import (
	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/repo"
)

func init() {
	var nameOnly bool
	cmd := &cobra.Command{
		Use:   "ls-tree <hex>",
		Short: "list a tree object's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := object.NewOidFromHexString(args[0])
			if err != nil {
				return err
			}
			entries, err := repo.Open(fs, ".").LsTree(id)
			if err != nil {
				return err
			}
			printTreeEntries(entries, nameOnly)
			return nil
		},
	}
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "print only entry names")
	rootCmd.AddCommand(cmd)
}
