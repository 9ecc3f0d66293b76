package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate a skeleton migration",
	Long: `Generate a skeleton migration file with Up and Down sections, using args
to build the migration name, e.g. svcmigrate generate Create posts table
creates V00N__create_posts_table.sql with the next free version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stop := drainEvents(migrator, "generated")
		fpath, err := migrator.GenerateMigration(strings.Join(args, " "))
		stop()

		if err != nil {
			return errors.Wrap(err, "can't generate migration")
		}

		fmt.Printf("created %s\n", fpath)
		return nil
	},
}
