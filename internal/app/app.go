// Package app implements the imagelab command line tool.
package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab/internal/config"
)

var rootCmd = &cobra.Command{
	Use:               "imagelab",
	Short:             "Binarize, filter, transform and blend images",
	PersistentPreRunE: appPersistentPreRun,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&logLevel, "level", "l",
		"", "Log level (overrides the configuration file)",
	)
}

func appPersistentPreRun(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		if _, err := os.Stat("imagelab.toml"); err == nil {
			configPath = "imagelab.toml"
		}
	}
	if err := config.LoadConfiguration(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}
	if logLevel != "" {
		config.Config.Main.LogLevel = logLevel
	}

	// Enforce debug in dev mode
	if config.Config.Main.DevMode {
		config.Config.Main.LogLevel = "debug"
	}

	// Setup logger
	lvl, err := log.ParseLevel(config.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(cmd.ErrOrStderr())
	if config.Config.Main.DevMode {
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
		log.SetOutput(colorable.NewColorableStderr())
	}
	log.WithFields(log.Fields{
		"log_level": lvl,
		"config":    configPath,
	}).Debug("configuration loaded")

	return nil
}

// Run starts the application
func Run() error {
	return rootCmd.Execute()
}
