package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/peteruche21/tailwind-packages/cmd/tailwindd/setting"
)

func getConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "config",
		Short:             "generate the default configuration file if it is missing",
		PersistentPreRunE: homePreRunE,
		RunE:              genConfig,
	}
}

func genConfig(cmd *cobra.Command, _ []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to get the configuration file path")
	}

	if _, err = os.Stat(path); os.IsNotExist(err) {
		err = os.MkdirAll(filepath.Dir(path), 0700)
	}
	if err != nil {
		return err
	}

	err = setting.LoadConfig(path)
	if err != nil {
		fmt.Println("generating default config file")
		err = setting.GenDefaultConfig(path)
		if err != nil {
			return errors.Wrap(err, "failed to generate config file at given path")
		}
	}

	return setting.LoadConfig(path)
}
