package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "roll back the most recently applied migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		stop := drainEvents(migrator, "rolled back")
		err := migrator.Rollback()
		stop()

		if err != nil {
			return errors.Wrap(err, "can't rollback")
		}

		fmt.Println("1 migration successfully rolled back")
		return nil
	},
}
