package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var blocklistCmd = &cobra.Command{
	Use:   "blocklist",
	Short: "Inspect and manage active source blocks",
}

var blocklistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List active blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := client().ListBlocked()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no active blocks")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-20s started %-20s expires %s\n",
				e.Source, e.StartedAt.Format(time.RFC3339), e.ExpiresAt.Format(time.RFC3339))
		}
		return nil
	},
}

var blocklistAddCmd = &cobra.Command{
	Use:   "block <source>",
	Short: "Install a manual block for a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, _ := cmd.Flags().GetInt("duration")
		if err := client().Block(args[0], time.Duration(seconds)*time.Second); err != nil {
			return err
		}
		fmt.Printf("blocked %s for %ds\n", args[0], seconds)
		return nil
	},
}

var blocklistRemoveCmd = &cobra.Command{
	Use:   "unblock <source>",
	Short: "Remove a manual block for a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client().Unblock(args[0]); err != nil {
			return err
		}
		fmt.Printf("unblocked %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blocklistCmd)
	rootCmd.AddCommand(blocklistAddCmd)
	rootCmd.AddCommand(blocklistRemoveCmd)
	blocklistCmd.AddCommand(blocklistListCmd)

	blocklistAddCmd.Flags().Int("duration", 600, "block duration in seconds")
}
