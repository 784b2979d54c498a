package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/repo"
)

func init() {
	var message string
	var parentHexes []string
	cmd := &cobra.Command{
		Use:   "commit-tree <tree-hex>",
		Short: "create a commit object pointing at a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := object.NewOidFromHexString(args[0])
			if err != nil {
				return err
			}
			parents := make([]object.Oid, 0, len(parentHexes))
			for _, hex := range parentHexes {
				id, err := object.NewOidFromHexString(hex)
				if err != nil {
					return err
				}
				parents = append(parents, id)
			}
			id, err := repo.Open(fs, ".").CommitTree(tree, parents, commitAuthor(), message)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringArrayVarP(&parentHexes, "parent", "p", nil, "parent commit identity (repeatable)")
	rootCmd.AddCommand(cmd)
}

// commitAuthor builds a signature from GIT_AUTHOR_NAME/GIT_AUTHOR_EMAIL,
// falling back to a generic identity when unset.
func commitAuthor() object.Signature {
	name := os.Getenv("GIT_AUTHOR_NAME")
	if name == "" {
		name = "mingit"
	}
	email := os.Getenv("GIT_AUTHOR_EMAIL")
	if email == "" {
		email = "mingit@localhost"
	}
	return object.Signature{Name: name, Email: email, When: time.Now()}
}
