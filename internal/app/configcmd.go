package app

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "Write the current configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		filename := "imagelab.toml"
		if len(args) > 0 {
			filename = args[0]
		}
		if err := config.WriteConfig(filename); err != nil {
			return err
		}
		log.WithField("file", filename).Info("configuration written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
