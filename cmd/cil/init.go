package main

import (
	"fmt"
	"os"

	"github.com/matsen/citelink/internal/config"
	"github.com/matsen/citelink/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new citelink library",
	Long: `Initialize a new citelink library in the current directory.

Creates:
  .citelink/
  ├── library.db      # SQLite library
  └── config.yaml     # Default config`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	if r := os.Getenv("CIL_ROOT"); r != "" {
		root = r
	}

	if config.IsLibrary(root) {
		exitWithError(ExitError, "directory already contains a citelink library")
	}

	if err := os.MkdirAll(config.CitelinkPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .citelink directory: %v", err)
	}

	// Opening the store creates the schema.
	s, err := store.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "creating library.db: %v", err)
	}
	s.Close()

	cfg := &config.Config{}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.yaml: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized citelink library in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}

	return nil
}
