package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/repo"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "create an empty repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := repo.Init(fs, "."); err != nil {
				return err
			}
			fmt.Println("Initialized git directory")
			return nil
		},
	})
}
