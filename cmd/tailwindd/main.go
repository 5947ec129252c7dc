package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peteruche21/tailwind-packages/cmd/tailwindd/setting"
	"github.com/peteruche21/tailwind-packages/utils"
)

const (
	HOME                string = "home"
	CONFIG              string = "config"
	DEFAULT_CONFIG_PATH string = "./config/config.toml"
)

func main() {
	rootCmd := getRootCmd()
	rootCmd.AddCommand(getConfigCmd())
	rootCmd.AddCommand(getKeysCmd())
	rootCmd.AddCommand(getStartCmd())
	rootCmd.AddCommand(getSignCmd())

	err := rootCmd.Execute()
	if err != nil {
		utils.ErrorLog(utils.FormatError(err))
		os.Exit(1)
	}
}

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tailwindd",
		Short:             "tailwind wallet provider",
		Version:           setting.VERSION,
		PersistentPreRunE: rootPreRunE,
		SilenceUsage:      true,
	}

	dir, err := os.Getwd()
	if err != nil {
		utils.ErrorLog("failed to get working directory")
		panic(err)
	}
	rootCmd.PersistentFlags().StringP(HOME, "r", dir, "home path for the tailwindd process")
	rootCmd.PersistentFlags().StringP(CONFIG, "c", DEFAULT_CONFIG_PATH, "configuration file path ")
	return rootCmd
}

func homePreRunE(cmd *cobra.Command, _ []string) error {
	homePath, err := cmd.Flags().GetString(HOME)
	if err != nil {
		utils.ErrorLog("failed to get 'home' path for the tailwindd process")
		return err
	}
	homePath, err = utils.Absolute(homePath)
	if err != nil {
		utils.ErrorLog("cannot convert home path to absolute path")
		return err
	}
	setting.HomePath = homePath
	_ = utils.NewDefaultLogger(filepath.Join(homePath, "tmp/logs/stdout.log"), true, true)
	return nil
}

func rootPreRunE(cmd *cobra.Command, args []string) error {
	if err := homePreRunE(cmd, args); err != nil {
		return err
	}

	configPath, err := configFilePath(cmd)
	if err != nil {
		utils.ErrorLog("failed to get 'config' path for the tailwindd process")
		return err
	}

	err = setting.LoadConfig(configPath)
	if err != nil {
		utils.ErrorLog("Error loading the setting file", err)
		return err
	}

	if setting.Config.Log.File != "" {
		_ = utils.NewDefaultLogger(filepath.Join(setting.HomePath, setting.Config.Log.File), true, true)
	}
	lv, err := utils.ParseLogLevel(setting.Config.Log.Level)
	if err != nil {
		return err
	}
	utils.MyLogger.SetLogLevel(lv)
	return nil
}

func configFilePath(cmd *cobra.Command) (string, error) {
	configPath, err := cmd.Flags().GetString(CONFIG)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(configPath) {
		return configPath, nil
	}
	return filepath.Join(setting.HomePath, configPath), nil
}

func getQuitChannel() chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)

	return quit
}
