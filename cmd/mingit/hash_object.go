package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/repo"
)

func init() {
	var write bool
	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "compute (and optionally store) a blob's identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return err
			}
			id, err := repo.Open(fs, ".").HashObject(content, write)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "also store the blob")
	rootCmd.AddCommand(cmd)
}
