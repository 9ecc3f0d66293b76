package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/schemakit/svcmigrate"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "svcmigrate",
	Short: "apply pending database schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := migrate(migrator)
		return err
	},
}

func migrate(migrator *svcmigrate.Migrator) (*svcmigrate.MigrationSummary, error) {
	stop := drainEvents(migrator, "applied")
	summary, err := migrator.Migrate()
	stop()

	if err != nil {
		return nil, errors.Wrap(err, "can't migrate")
	}

	if summary.NoOp() {
		fmt.Println("there are no migrations to apply")
		return summary, nil
	}

	fmt.Println(summary)
	if summary.HasFailures() {
		return summary, errors.Errorf("%d %s failed", len(summary.Failed), pluralize("migration", len(summary.Failed)))
	}
	return summary, nil
}
