package main

import (
	"fmt"
	"os"

	"github.com/schemakit/svcmigrate"
)

// drainEvents consumes the migrator's progress and error channels,
// printing as events arrive, until the returned stop func is called.
// Commands that touch the engine must keep a drainer running or the
// engine blocks on its first event.
func drainEvents(migrator *svcmigrate.Migrator, verb string) (stop func()) {
	done := make(chan struct{})
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for {
			select {
			case migration := <-migrator.MigrationsCh:
				fmt.Printf("migration %s has been successfully %s\n", migration.FileName(), verb)
			case err := <-migrator.ErrorsCh:
				fmt.Fprintf(os.Stderr, "warning: %s\n", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		<-drained
	}
}

// exitWithError prints an error to the terminal and terminates the app
func exitWithError(err error) {
	if migrator != nil {
		migrator.Close()
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func pluralize(s string, n int) string {
	if n != 1 {
		return s + "s"
	}
	return s
}
