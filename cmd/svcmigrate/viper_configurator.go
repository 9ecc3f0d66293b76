package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/schemakit/svcmigrate"
	"github.com/spf13/viper"
)

// settingsKeys are the viper keys layered from config file, key value
// store, env vars and flags into migrator settings
var settingsKeys = []string{
	"engine", "database", "user", "password", "host", "port",
	"service", "dir", "continue", "nochecksums", "concurrentscan",
}

// viperConfigurator builds the viper instance the migrator settings are
// read from, layering sources in precedence order: flags over env vars
// over the key value store over the config file.
type viperConfigurator struct {
	// initial viper, can be substituted when scoping to an environment
	viper      *viper.Viper
	flags      *appFlags
	projectDir string
}

func (vc *viperConfigurator) configure() (*viper.Viper, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "can't get working directory")
	}

	vc.projectDir, err = svcmigrate.FindProjectDir(wd)
	if err != nil {
		return nil, err
	}

	if err = vc.readConfigFile(); err != nil {
		return nil, err
	}
	if vc.flags.kvsParamsStr != "" {
		if err = vc.readKVS(); err != nil {
			return nil, err
		}
	}
	if vc.flags.env != "" {
		vc.scopeToEnv()
	}
	vc.readEnv()
	if err = vc.readFlags(); err != nil {
		return nil, err
	}

	return vc.viper, nil
}

// readConfigFile tries to read configuration from a file; a missing
// config file is allowed
func (vc *viperConfigurator) readConfigFile() error {
	vc.viper.AddConfigPath(vc.projectDir)
	vc.viper.SetConfigName(vc.flags.configFile)
	err := vc.viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return err
	}
	return nil
}

// readKVS reads configuration from an etcd or consul key value store
func (vc *viperConfigurator) readKVS() error {
	kvsParams, err := parseKVSConnectionString(vc.flags.kvsParamsStr)
	if err != nil {
		return errors.Wrap(err, "wrong key value store connection string")
	}

	kvsErrorString := fmt.Sprintf("can't connect to key value store using connection string %s", vc.flags.kvsParamsStr)
	if vc.flags.secretKeyRingPath != "" {
		err = vc.viper.AddSecureRemoteProvider(kvsParams.provider, kvsParams.endpoint(), kvsParams.path, vc.flags.secretKeyRingPath)
		if err != nil {
			return errors.Wrapf(err, "%s and key ring path %s", kvsErrorString, vc.flags.secretKeyRingPath)
		}
	} else {
		err = vc.viper.AddRemoteProvider(kvsParams.provider, kvsParams.endpoint(), kvsParams.path)
		if err != nil {
			return errors.Wrap(err, kvsErrorString)
		}
	}

	vc.viper.SetConfigType(kvsParams.format)
	if err = vc.viper.ReadRemoteConfig(); err != nil {
		return errors.Wrap(err, kvsErrorString)
	}
	return nil
}

// scopeToEnv narrows viper to the subtree of the environment given by the
// env flag, or starts clean when the config has no such subtree
func (vc *viperConfigurator) scopeToEnv() {
	if vc.viper.IsSet(vc.flags.env) {
		vc.viper = vc.viper.Sub(vc.flags.env)
	} else {
		vc.viper = viper.New()
	}
}

// readEnv builds the full prefix for env vars and reads them
func (vc *viperConfigurator) readEnv() {
	envVarsPrefix := vc.flags.prefix
	if envVarsPrefix == "" {
		envVarsPrefix = filepath.Base(vc.projectDir)
	}
	if vc.flags.env != "" {
		envVarsPrefix += "_" + vc.flags.env
	}

	vc.viper.SetEnvPrefix(envVarsPrefix)
	vc.viper.AutomaticEnv()
}

// readFlags binds cobra flags to viper
func (vc *viperConfigurator) readFlags() error {
	for _, key := range settingsKeys {
		if err := vc.viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			return errors.Wrapf(err, "can't bind flag %s", key)
		}
	}
	return nil
}
