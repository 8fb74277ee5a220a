package main

import (
	"fmt"
	"strings"

	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/record"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a single record by key",
	Long: `Get a single record and its citations by key.

Example:
  cil get AB12CD34`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// ItemResponse is the record plus its citation edges.
type ItemResponse struct {
	Item        *record.Item           `json:"item"`
	Citations   []*citation.Citation   `json:"citations,omitempty"`
	Quarantined []citation.Quarantined `json:"quarantined,omitempty"`
}

func runGet(cmd *cobra.Command, args []string) error {
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

	citations, quarantined, err := s.Citations(it)
	if err != nil {
		exitWithError(ExitError, "loading citations: %v", err)
	}

	if humanOutput {
		printItemDetail(it, citations, quarantined)
	} else {
		outputJSON(ItemResponse{Item: it, Citations: citations, Quarantined: quarantined})
	}

	return nil
}

func printItemDetail(it *record.Item, citations []*citation.Citation, quarantined []citation.Quarantined) {
	fmt.Println(it.Key)
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(it.Title, TextWrapWidth, "          "))
	fmt.Printf("Type:     %s\n", it.ItemType)

	if len(it.Creators) > 0 {
		var names []string
		for _, c := range it.Creators {
			names = append(names, formatCreator(c))
		}
		fmt.Printf("Creators: %s\n", wrapText(strings.Join(names, ", "), TextWrapWidth, "          "))
	}

	if it.Date != "" {
		fmt.Printf("Date:     %s\n", it.Date)
	}
	if it.DOI != "" {
		fmt.Printf("DOI:      %s\n", it.DOI)
	}
	if it.ISBN != "" {
		fmt.Printf("ISBN:     %s\n", it.ISBN)
	}
	if qid := it.QID(); qid != "" {
		fmt.Printf("QID:      %s\n", qid)
	}

	if len(citations) > 0 {
		fmt.Println()
		fmt.Printf("Citations (%d):\n", len(citations))
		for i, c := range citations {
			marker := " "
			if a := c.GetOCI("wikidata"); a != nil {
				marker = "*"
				if !a.Valid {
					marker = "!"
				}
			}
			line := c.Target.Title
			if qid := c.TargetQID(); qid != "" {
				line += " (" + qid + ")"
			}
			fmt.Printf("  [%d]%s %s\n", i, marker, truncateString(line, TextWrapWidth))
			if len(c.Intentions) > 0 {
				fmt.Printf("       %s\n", strings.Join(c.Intentions, ", "))
			}
		}
	}

	if len(quarantined) > 0 {
		fmt.Println()
		fmt.Printf("Quarantined entries: %d (corrupt, excluded from sync)\n", len(quarantined))
	}
}
