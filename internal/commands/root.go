package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/svoz-odpadu/internal/app"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "svoz-odpadu",
	Short: "Waste collection schedule lookup",
	Long:  `svoz-odpadu answers when waste is next collected for a street or house number.`,
	// Settings are loaded once for every subcommand
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		app.Settings = cfg
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}
