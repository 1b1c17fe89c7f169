package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Personalized 11:11 readings and social publishing",
	Long:  "Oracle serves personalized prophecy readings, generates branded cards and publishes them to Instagram and Facebook on a schedule.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $CONFIG_PATH or ./oracle.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(postingCmd)
	rootCmd.AddCommand(manifestCmd)
}
