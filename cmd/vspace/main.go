package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/vspace/cmd/vspace/commands"
	"github.com/teranos/vspace/conf"
	"github.com/teranos/vspace/logger"
)

var rootCmd = &cobra.Command{
	Use:   "vspace",
	Short: "vspace - Virtual spaces over hierarchical paths",
	Long: `vspace - Virtual spaces over hierarchical paths.

Build a shared path tree, declare named virtual spaces with add/sub rules,
and query path membership after batched updates.

Available commands:
  demo    - Walk through a two-space add/sub/test scenario
  rules   - Show what each rule form expands to in the tree
  conf    - Manage vspace configuration
  version - Show vspace version information

Examples:
  vspace demo              # Run the built-in scenario and render the tree
  vspace rules '/a/*/c'    # Expand one rule and render the result
  vspace conf show         # Show current configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		// Flags win over config; a broken config never blocks logging.
		if cfg, err := conf.Load(); err == nil {
			if verbosity == 0 {
				verbosity = cfg.Log.Verbosity
			}
			jsonLogs = jsonLogs || cfg.Log.JSON
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	rootCmd.AddCommand(commands.DemoCmd)
	rootCmd.AddCommand(commands.RulesCmd)
	rootCmd.AddCommand(commands.ConfCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
