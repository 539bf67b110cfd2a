package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryorithm/blackbox/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect local detection rule files",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Load and compile a rules YAML file without starting the pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := rules.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d rule(s) compiled successfully\n", args[0], engine.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
}
