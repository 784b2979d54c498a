package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/repo"
)

var catFilePretty bool

func init() {
	cmd := &cobra.Command{
		Use:   "cat-file <hex>",
		Short: "print the contents of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := object.NewOidFromHexString(args[0])
			if err != nil {
				return err
			}
			r := repo.Open(fs, ".")
			o, err := r.CatFile(id)
			if err != nil {
				return err
			}
			if o.Kind() == object.KindTree {
				tree, err := object.NewTreeFromObject(o)
				if err != nil {
					return err
				}
				printTreeEntries(tree.Entries(), false)
				return nil
			}
			_, err = os.Stdout.Write(o.Bytes())
			return err
		},
	}
	cmd.Flags().BoolVarP(&catFilePretty, "pretty", "p", true, "pretty-print the object")
	rootCmd.AddCommand(cmd)
}

func printTreeEntries(entries []object.Entry, nameOnly bool) {
	for _, e := range entries {
		if nameOnly {
			fmt.Println(e.Name)
			continue
		}
		kind := "blob"
		if e.Mode.IsDir() {
			kind = "tree"
		}
		fmt.Printf("%s %s %s\t%s\n", e.Mode, kind, e.ID, e.Name)
	}
}
