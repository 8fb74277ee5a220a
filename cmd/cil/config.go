package main

import (
	"fmt"

	"github.com/matsen/citelink/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get and set library configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the library configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys: pdf_root, user_agent, env_file.

Example:
  cil config set pdf_root ~/papers/pdfs`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	root, err := getLibraryRoot()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("pdf_root:   %s\n", cfg.PDFRoot)
		fmt.Printf("user_agent: %s\n", cfg.UserAgent)
		fmt.Printf("env_file:   %s\n", cfg.EnvFile)
	} else {
		outputJSON(cfg)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	root, err := getLibraryRoot()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	key, value := args[0], args[1]
	switch key {
	case "pdf_root":
		if err := config.ValidatePDFRoot(value); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		cfg.PDFRoot = value
	case "user_agent":
		cfg.UserAgent = value
	case "env_file":
		cfg.EnvFile = value
	default:
		exitWithError(ExitDataError, "unknown config key: %s (valid: pdf_root, user_agent, env_file)", key)
	}

	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(StatusResponse{Status: "updated", Key: key})
	}
	return nil
}
