package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/gitlog"
	"github.com/kbolino/mingit/repo"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "clone <url> <dir>",
		Short: "clone a remote repository's HEAD commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, dir := args[0], args[1]
			if _, err := repo.Clone(context.Background(), fs, url, dir, gitlog.NewStandard()); err != nil {
				return err
			}
			fmt.Printf("cloned %s into %s\n", url, dir)
			return nil
		},
	})
}
