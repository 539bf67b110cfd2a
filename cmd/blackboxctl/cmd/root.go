package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aryorithm/blackbox/internal/adminclient"
)

var adminURL string

var rootCmd = &cobra.Command{
	Use:     "blackboxctl",
	Short:   "Operator CLI for the blackbox pipeline daemon",
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&adminURL, "admin-url", "http://localhost:9090", "blackboxd admin HTTP base URL")
}

func client() *adminclient.Client {
	return adminclient.New(adminURL)
}
