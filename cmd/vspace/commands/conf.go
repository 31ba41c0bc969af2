package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/vspace/conf"
	"github.com/teranos/vspace/namespace"
)

// ConfCmd represents the conf (configuration) command
var ConfCmd = &cobra.Command{
	Use:   "conf",
	Short: "Manage vspace configuration",
	Long: `conf — Manage vspace configuration

Configuration sources (in order of precedence):
1. Environment variables (VSPACE_* prefix)
2. Project config (vspace.toml, searched upward from the working directory)
3. Default values

Examples:
  vspace conf show                 # Show current configuration
  vspace conf show --format json   # Show configuration in JSON format
  vspace conf get digest.length    # Get specific config value
  vspace conf validate             # Validate current configuration
  vspace conf init                 # Write a vspace.toml with defaults`,
}

var confShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current vspace configuration from all sources",
	RunE:  runConfShow,
}

var confGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., digest.length, log.verbosity)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfGet,
}

var confValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current vspace configuration is valid",
	RunE:  runConfValidate,
}

var confInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a vspace.toml with default values",
	Long: `Write a vspace.toml with default values into the current directory.

Existing files are kept as rotating backups (.back1, .back2, .back3).`,
	RunE: runConfInit,
}

var confFormat string

func init() {
	confShowCmd.Flags().StringVar(&confFormat, "format", "toml", "Output format: toml, json")

	ConfCmd.AddCommand(confShowCmd)
	ConfCmd.AddCommand(confGetCmd)
	ConfCmd.AddCommand(confValidateCmd)
	ConfCmd.AddCommand(confInitCmd)
}

func runConfShow(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch confFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Println(string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Printf("# vspace configuration\n%s", string(data))

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json)", confFormat)
	}

	return nil
}

func runConfGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := conf.GetViper()
	if !v.IsSet(key) {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	fmt.Println(v.Get(key))
	return nil
}

func runConfValidate(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		pterm.Error.Printfln("Configuration is invalid: %v", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		pterm.Error.Printfln("Configuration is invalid: %v", err)
		return err
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runConfInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, conf.ConfigFileName)

	cfg := &conf.Config{
		Digest: conf.DigestConfig{Length: namespace.DefaultDigestLen},
		Render: conf.RenderConfig{ShowProvenance: true, ShowExclusions: true},
	}
	if err := conf.Persist(cfg, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	pterm.Success.Printfln("Wrote %s", configPath)
	return nil
}
