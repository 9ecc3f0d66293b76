package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/schemakit/svcmigrate"
	"github.com/spf13/cobra"
)

const printTimestampFormat = "2006-01-02 15:04:05.000"

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show the migrations ledger and schema status",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := migrator.Records()
		if err != nil {
			return errors.Wrap(err, "can't get migration records")
		}

		if len(records) == 0 {
			fmt.Println("no migrations were applied yet")
			return nil
		}

		renderRecords(records)

		status, err := migrator.Status()
		if err != nil {
			return errors.Wrap(err, "can't get migrations status")
		}
		fmt.Print(status)

		return nil
	},
}

func renderRecords(records []*svcmigrate.MigrationRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Version", "Name", "Applied at", "Time (ms)", "Success", "Error"})
	table.SetAutoWrapText(false)

	for _, record := range records {
		success := "yes"
		if !record.Success {
			success = "no"
		}
		table.Append([]string{
			record.Version,
			record.Name,
			record.AppliedAt.Format(printTimestampFormat),
			strconv.FormatUint(record.ExecutionTimeMs, 10),
			success,
			record.ErrorMessage,
		})
	}
	table.Render()
}
