package main

import (
	"github.com/schemakit/svcmigrate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "github.com/spf13/viper/remote"
)

// appFlags contains vars that can be specified only as flags
type appFlags struct {
	// prefix defines an alternative prefix for environment variable
	// names, default is the project dir name
	prefix string
	// env defines an optional alternative environment and thus an
	// alternative database configuration, e.g. for tests
	env string

	// config file name (without extension)
	configFile string

	// kvsParamsStr is the key value store connection string
	// (in store://host(:port)/path.type format)
	kvsParamsStr string
	// secretKeyRingPath is a path to a key ring file
	secretKeyRingPath string
}

var (
	migrator *svcmigrate.Migrator
	flags    *appFlags
)

// engineFlags holds variables for the flags viper layers into the
// migrator settings
var engineFlags struct {
	engine            string
	database          string
	user              string
	password          string
	host              string
	port              int
	service           string
	dir               string
	continueOnFailure bool
	noChecksums       bool
	concurrentScan    bool
}

func init() {
	flags = &appFlags{}

	rootCmd.PersistentFlags().StringVarP(&flags.prefix, "prefix", "x", "", "environment variables prefix, default is the project dir name")
	rootCmd.PersistentFlags().StringVarP(&flags.env, "env", "e", "", "optional environment (to support more than one database, e.g. for tests)")

	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "svcmigrate", "config file, default is svcmigrate.yml")
	rootCmd.PersistentFlags().StringVarP(&flags.kvsParamsStr, "kvsparams", "k", "", "key value store connection string, format is provider://host:port/path.type")
	rootCmd.PersistentFlags().StringVarP(&flags.secretKeyRingPath, "secretkeyring", "r", "", "secret key ring path")

	rootCmd.PersistentFlags().StringVarP(&engineFlags.engine, "engine", "n", "", "database engine (postgres, mysql or sqlite)")
	rootCmd.PersistentFlags().StringVarP(&engineFlags.database, "database", "d", "", "database name")
	rootCmd.PersistentFlags().StringVarP(&engineFlags.user, "user", "u", "", "database user")
	rootCmd.PersistentFlags().StringVarP(&engineFlags.password, "password", "p", "", "database password")
	rootCmd.PersistentFlags().StringVarP(&engineFlags.host, "host", "b", "", "database host, default is localhost")
	rootCmd.PersistentFlags().IntVarP(&engineFlags.port, "port", "o", 0, "database port, default is specific for each database engine")
	rootCmd.PersistentFlags().StringVarP(&engineFlags.service, "service", "s", "", "service name owning the migrations ledger")
	rootCmd.PersistentFlags().StringVarP(&engineFlags.dir, "dir", "m", "", "migrations dir, default is migrations")
	rootCmd.PersistentFlags().BoolVarP(&engineFlags.continueOnFailure, "continue", "f", false, "keep running migrations after one fails")
	rootCmd.PersistentFlags().BoolVarP(&engineFlags.noChecksums, "nochecksums", "q", false, "disable checksum drift validation")
	rootCmd.PersistentFlags().BoolVarP(&engineFlags.concurrentScan, "concurrentscan", "w", false, "read migration files concurrently")

	rootCmd.AddCommand(statusCmd, failedCmd, rollbackCmd, generateCmd)

	// flags are parsed and viper gives the proper configuration only
	// once a command runs, so the migrator is built here, not in main
	cobra.OnInitialize(func() {
		v, err := (&viperConfigurator{viper: viper.GetViper(), flags: flags}).configure()
		if err != nil {
			exitWithError(err)
		}

		migrator, err = svcmigrate.NewMigrator(&svcmigrate.Settings{
			Engine:                 v.GetString("engine"),
			Database:               v.GetString("database"),
			User:                   v.GetString("user"),
			Password:               v.GetString("password"),
			Host:                   v.GetString("host"),
			Port:                   v.GetInt("port"),
			Service:                v.GetString("service"),
			MigrationsDir:          v.GetString("dir"),
			ContinueOnFailure:      v.GetBool("continue"),
			SkipChecksumValidation: v.GetBool("nochecksums"),
			ConcurrentScan:         v.GetBool("concurrentscan"),
			MigrationsCh:           make(chan *svcmigrate.MigrationFile),
			ErrorsCh:               make(chan error),
		})
		if err != nil {
			exitWithError(err)
		}
	})
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		exitWithError(err)
	}

	if migrator != nil {
		migrator.Close()
	}
}
