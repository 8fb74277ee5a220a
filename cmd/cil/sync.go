package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/matsen/citelink/internal/config"
	"github.com/matsen/citelink/internal/reconcile"
	"github.com/matsen/citelink/internal/wikidata"
	"github.com/spf13/cobra"
)

var syncFlags struct {
	yes bool
}

func init() {
	syncCmd.Flags().BoolVar(&syncFlags.yes, "yes", false, "Apply changes without prompting (orphans are kept)")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [key...]",
	Short: "Reconcile local citations against Wikidata cites-work claims",
	Long: `Reconcile local citations against the cites-work claims of each
record's Wikidata entity. Without keys, every record in the library is
synced. Remote edits need WIKIDATA_USERNAME and WIKIDATA_PASSWORD, read
from the environment or the configured env_file.`,
	RunE: runSync,
}

// newWikidataClient builds the API client with the configured user agent
// and environment-backed login.
func newWikidataClient(opts ...wikidata.ClientOption) *wikidata.Client {
	base := []wikidata.ClientOption{wikidata.WithLogin(wikidata.EnvLogin{})}
	if ua := config.GetUserAgent(); ua != "" {
		base = append(base, wikidata.WithUserAgent(ua))
	}
	return wikidata.NewClient(append(base, opts...)...)
}

// loadCredentials loads the configured dotenv file, if any. Missing files
// are fine; the environment may already carry the credentials.
func loadCredentials(root string, cfg *config.Config) {
	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = config.GetEnvFile()
	}
	if envFile == "" {
		envFile = filepath.Join(config.CitelinkPath(root), ".env")
	}
	if _, err := os.Stat(envFile); err == nil {
		godotenv.Load(envFile)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	root, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	loadCredentials(root, cfg)

	keys := args
	if len(keys) == 0 {
		keys, err = s.Keys()
		if err != nil {
			exitWithError(ExitError, "listing records: %v", err)
		}
	}
	if len(keys) == 0 {
		exitWithError(ExitDataError, "library is empty")
	}

	clientOpts := []wikidata.ClientOption{}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, wikidata.WithUserAgent(cfg.UserAgent))
	}

	engine := &reconcile.Engine{
		Remote:  newWikidataClient(clientOpts...),
		Library: reconcile.StoreLibrary{Store: s},
		UI:      newTerminalUI(syncFlags.yes),
	}

	result, err := engine.Sync(context.Background(), keys)
	if err != nil {
		if wikidata.IsAuthError(err) {
			exitWithError(ExitAuthError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printSyncResult(result)
	} else {
		outputJSON(result)
	}

	switch {
	case result.Cancelled:
		os.Exit(ExitCancelled)
	case result.RemoteFailed:
		os.Exit(ExitError)
	}
	return nil
}

func printSyncResult(result *reconcile.Result) {
	if result.Cancelled {
		fmt.Println("Cancelled; nothing changed.")
		return
	}
	if result.UpToDate {
		fmt.Println("Everything up to date.")
		if len(result.Summary.ExcludedNoQID) > 0 {
			fmt.Printf("Skipped (no QID): %d\n", len(result.Summary.ExcludedNoQID))
		}
		return
	}

	s := result.Summary
	fmt.Printf("Local:  +%d  ~%d  flag %d  unflag %d  -%d\n",
		s.LocalAdd, s.LocalModify, s.LocalFlag, s.LocalUnflag, s.LocalDelete)
	fmt.Printf("Remote: +%d  ~%d\n", s.RemoteAdd, s.RemoteModify)
	if s.Invalid > 0 {
		fmt.Printf("Invalid assertions skipped: %d\n", s.Invalid)
	}
	if s.Unclassified > 0 {
		fmt.Printf("Citations without target QID: %d\n", s.Unclassified)
	}
	if len(s.ExcludedNoQID) > 0 {
		fmt.Printf("Records without QID: %d\n", len(s.ExcludedNoQID))
	}
	if result.Unsupported > 0 {
		fmt.Printf("Unsupported remote targets skipped: %d\n", result.Unsupported)
	}
	if result.RemoteFailed {
		fmt.Println("All remote edits failed.")
	}
	if result.LocalSkipped {
		fmt.Println("Local changes skipped after remote failures.")
	}
	if len(result.LocalUpdated) > 0 {
		fmt.Printf("Updated records: %d\n", len(result.LocalUpdated))
	}
}
