// Package main provides the cil CLI entry point.
package main

import (
	"os"

	"github.com/matsen/citelink/internal/config"
	"github.com/matsen/citelink/internal/store"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cil",
	Short: "Citation-graph manager synced with Wikidata",
	Long: `cil manages a local bibliographic library and its citation graph.

Records live in a SQLite library; each record's outgoing citations carry
Open Citation Identifier assertions that track which edges exist on
Wikidata. The sync command reconciles the local graph against the
remote cites-work claims. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getLibraryRoot returns the library root, walking up from the working
// directory. CIL_ROOT and the global config's library_path serve as
// fallbacks.
func getLibraryRoot() (string, error) {
	if root := os.Getenv("CIL_ROOT"); root != "" {
		return config.FindLibrary(root)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := config.FindLibrary(cwd); err == nil {
		return root, nil
	}

	if fallback := config.GetLibraryPath(); fallback != "" && config.IsLibrary(fallback) {
		return fallback, nil
	}
	return config.FindLibrary(cwd)
}

// openLibrary locates the library and opens its store. The caller owns the
// returned store.
func openLibrary() (string, *store.Store, error) {
	root, err := getLibraryRoot()
	if err != nil {
		return "", nil, err
	}
	s, err := store.Open(config.DBPath(root))
	if err != nil {
		return "", nil, err
	}
	return root, s, nil
}
