package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check liveness and readiness of a blackboxd instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client()

		if err := c.Health(); err != nil {
			fmt.Println("healthz: FAIL -", err)
		} else {
			fmt.Println("healthz: OK")
		}

		if err := c.Ready(); err != nil {
			fmt.Println("readyz:  FAIL -", err)
		} else {
			fmt.Println("readyz:  OK")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
