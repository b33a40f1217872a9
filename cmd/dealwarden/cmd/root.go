// Package cmd implements the CLI commands for the dealwarden server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dealwarden",
	Short: "Track video-game prices and get notified about deals",
	Long: "dealwarden polls IsThereAnyDeal for prices on tracked games, " +
		"records deal history, and sends Discord notifications when a game " +
		"drops below its threshold. Access is gated behind invite codes.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
