package main

import (
	"fmt"
	"sort"

	"github.com/matsen/citelink/internal/record"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all records in the library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	keys, err := s.Keys()
	if err != nil {
		exitWithError(ExitError, "listing records: %v", err)
	}
	sort.Strings(keys)

	items := make([]*record.Item, 0, len(keys))
	for _, key := range keys {
		it, err := s.Item(key)
		if err != nil {
			exitWithError(ExitError, "loading %s: %v", key, err)
		}
		if it != nil {
			items = append(items, it)
		}
	}

	if humanOutput {
		for _, it := range items {
			qid := it.QID()
			if qid == "" {
				qid = "-"
			}
			fmt.Printf("%-10s %-10s %s\n", it.Key, qid, truncateString(it.Title, ListTitleMaxLen))
		}
		fmt.Printf("\n%d records\n", len(items))
	} else {
		outputJSON(items)
	}

	return nil
}
