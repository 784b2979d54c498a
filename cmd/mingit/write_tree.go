package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/repo"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "write-tree",
		Short: "snapshot the current directory into a tree object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := repo.Open(fs, ".").WriteTree()
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	})
}
