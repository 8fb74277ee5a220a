package main

import (
	"context"
	"fmt"

	"github.com/matsen/citelink/internal/wikidata"
	"github.com/spf13/cobra"
)

var resolveFlags struct {
	set   bool
	limit int
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveFlags.set, "set", false, "Store the QID when the service asserts an exact match")
	resolveCmd.Flags().IntVar(&resolveFlags.limit, "limit", 5, "Maximum candidates to return")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>",
	Short: "Find Wikidata entity candidates for a record",
	Long: `Query the Wikidata reconciliation service for entity candidates
matching a record's title and identifiers.

Example:
  cil resolve AB12CD34 --set`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// ResolveResponse is one record's candidate list.
type ResolveResponse struct {
	Key        string                        `json:"key"`
	Candidates []wikidata.ReconcileCandidate `json:"candidates"`
	Set        string                        `json:"set,omitempty"` // QID stored via --set
}

func runResolve(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	key := args[0]
	it, err := s.Item(key)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if it == nil {
		exitWithError(ExitError, "record not found: %s", key)
	}
	if it.Title == "" {
		exitWithError(ExitDataError, "record %s has no title to reconcile", key)
	}

	client := newWikidataClient()
	results, err := client.Reconcile(context.Background(), []wikidata.ReconcileQuery{{
		Title: it.Title,
		DOI:   it.DOI,
		ISBN:  it.ISBN,
		Limit: resolveFlags.limit,
	}})
	if err != nil {
		exitWithError(ExitError, "reconciling: %v", err)
	}
	candidates := results[0]

	resp := ResolveResponse{Key: key, Candidates: candidates}
	if resolveFlags.set {
		for _, c := range candidates {
			if c.Match {
				it.SetQID(c.QID)
				if err := s.SaveItem(it, false); err != nil {
					exitWithError(ExitError, "saving record: %v", err)
				}
				resp.Set = c.QID
				break
			}
		}
	}

	if humanOutput {
		if len(candidates) == 0 {
			fmt.Println("No candidates")
			return nil
		}
		for _, c := range candidates {
			marker := " "
			if c.Match {
				marker = "*"
			}
			fmt.Printf("%s %-12s %6.1f  %s\n", marker, c.QID, c.Score, truncateString(c.Name, ListTitleMaxLen))
		}
		if resp.Set != "" {
			fmt.Printf("\nSet %s qid = %s\n", key, resp.Set)
		}
	} else {
		outputJSON(resp)
	}
	return nil
}
