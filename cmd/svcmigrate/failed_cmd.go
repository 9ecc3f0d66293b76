package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var failedCmd = &cobra.Command{
	Use:   "failed",
	Short: "show failed migration attempts, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := migrator.FailedRecords()
		if err != nil {
			return errors.Wrap(err, "can't get failed migration records")
		}

		if len(records) == 0 {
			fmt.Println("no failed migration attempts")
			return nil
		}

		renderRecords(records)
		return nil
	},
}
