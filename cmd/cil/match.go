package main

import (
	"fmt"

	"github.com/matsen/citelink/internal/matcher"
	"github.com/matsen/citelink/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(linkCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <key>",
	Short: "Find library records that look like the same work",
	Long: `Find library records that look like the same work as the given
record: identifier-exact matches plus normalized-title matches that survive
the year and creator filters.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

var linkCmd = &cobra.Command{
	Use:   "link <key>",
	Short: "Link a record's citation targets to library records",
	Long: `Link a record's citation targets to existing library records.
A citation gets linked when the matcher finds exactly one candidate and no
sibling citation already points at it.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

// MatchResponse lists candidate keys for one probe.
type MatchResponse struct {
	Key     string   `json:"key"`
	Matches []string `json:"matches"`
}

func runMatch(cmd *cobra.Command, args []string) error {
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

	m := matcher.New()
	if err := m.Init(s, nil); err != nil {
		exitWithError(ExitError, "building matcher: %v", err)
	}

	matches, err := m.FindMatches(it)
	if err != nil {
		exitWithError(ExitError, "matching: %v", err)
	}

	// The probe always matches itself.
	filtered := matches[:0]
	for _, k := range matches {
		if k != key {
			filtered = append(filtered, k)
		}
	}

	if humanOutput {
		if len(filtered) == 0 {
			fmt.Println("No matches")
			return nil
		}
		for _, k := range filtered {
			candidate, err := s.Item(k)
			if err != nil || candidate == nil {
				fmt.Println(k)
				continue
			}
			fmt.Printf("%-10s %s\n", k, truncateString(candidate.Title, ListTitleMaxLen))
		}
	} else {
		outputJSON(MatchResponse{Key: key, Matches: filtered})
	}
	return nil
}

// LinkResponse reports the citations linked by one run.
type LinkResponse struct {
	Key    string            `json:"key"`
	Linked map[string]string `json:"linked"` // citation target title -> linked key
}

func runLink(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	m := matcher.New()
	if err := m.Init(s, nil); err != nil {
		exitWithError(ExitError, "building matcher: %v", err)
	}

	key := args[0]
	linked := make(map[string]string)
	withBatchStore(s, key, func(b *store.Batch) error {
		taken := make(map[string]bool)
		for _, c := range b.Citations() {
			if c.LinkedKey != "" {
				taken[c.LinkedKey] = true
			}
		}

		for _, c := range b.Citations() {
			if c.LinkedKey != "" {
				continue
			}
			matches, err := m.FindMatches(c.Target)
			if err != nil {
				return err
			}
			if len(matches) != 1 || matches[0] == key || taken[matches[0]] {
				continue
			}
			c.LinkedKey = matches[0]
			taken[matches[0]] = true
			linked[c.Target.Title] = matches[0]
		}
		if len(linked) == 0 {
			b.Suppress()
		}
		return nil
	})

	if humanOutput {
		if len(linked) == 0 {
			fmt.Println("Nothing to link")
			return nil
		}
		for title, k := range linked {
			fmt.Printf("%-10s %s\n", k, truncateString(title, ListTitleMaxLen))
		}
	} else {
		outputJSON(LinkResponse{Key: key, Linked: linked})
	}
	return nil
}

// withBatchStore is withBatch against an already-open store.
func withBatchStore(s *store.Store, key string, fn func(b *store.Batch) error) {
	b, err := s.BeginBatch(key)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := fn(b); err != nil {
		b.Suppress()
		b.End()
		exitWithError(ExitError, "%v", err)
	}
	if err := b.End(); err != nil {
		exitWithError(ExitError, "saving citations: %v", err)
	}
}
