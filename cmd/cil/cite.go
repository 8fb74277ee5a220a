package main

import (
	"fmt"
	"strconv"

	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/record"
	"github.com/matsen/citelink/internal/store"
	"github.com/spf13/cobra"
)

var citeAddFlags struct {
	title      string
	qid        string
	doi        string
	itemType   string
	intentions []string
}

func init() {
	citeAddCmd.Flags().StringVar(&citeAddFlags.title, "title", "", "Cited work title")
	citeAddCmd.Flags().StringVar(&citeAddFlags.qid, "qid", "", "Cited work Wikidata entity (Qnnn)")
	citeAddCmd.Flags().StringVar(&citeAddFlags.doi, "doi", "", "Cited work DOI")
	citeAddCmd.Flags().StringVar(&citeAddFlags.itemType, "type", "journalArticle", "Cited work item type")
	citeAddCmd.Flags().StringArrayVar(&citeAddFlags.intentions, "intent", nil, "CiTO intention (agreesWith, usesMethodIn, ...), repeatable")

	citeCmd.AddCommand(citeAddCmd)
	citeCmd.AddCommand(citeListCmd)
	citeCmd.AddCommand(citeRemoveCmd)
	citeCmd.AddCommand(citeAssertCmd)
	citeCmd.AddCommand(citeRetractCmd)
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Manage a record's outgoing citations",
}

var citeAddCmd = &cobra.Command{
	Use:   "add <key>",
	Short: "Add a citation from a record to a described work",
	Long: `Add a citation from a record to a described target work.

Example:
  cil cite add AB12CD34 --title "Tree of Life" --qid Q2715623 --intent citesAsEvidence`,
	Args: cobra.ExactArgs(1),
	RunE: runCiteAdd,
}

var citeListCmd = &cobra.Command{
	Use:   "list <key>",
	Short: "List a record's citations",
	Args:  cobra.ExactArgs(1),
	RunE:  runCiteList,
}

var citeRemoveCmd = &cobra.Command{
	Use:   "remove <key> <index>",
	Short: "Remove a citation by index",
	Args:  cobra.ExactArgs(2),
	RunE:  runCiteRemove,
}

var citeAssertCmd = &cobra.Command{
	Use:   "assert <key> <index> [supplier]",
	Short: "Attach an OCI assertion to a citation",
	Long: `Attach a freshly encoded OCI assertion for the given supplier
(default wikidata) to the citation at index. Both endpoints must carry the
identifier kind the supplier requires.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCiteAssert,
}

var citeRetractCmd = &cobra.Command{
	Use:   "retract <key> <index> [supplier]",
	Short: "Drop a citation's OCI assertion",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runCiteRetract,
}

// withBatch runs fn inside a citation batch for the record, committing on
// success and discarding on error.
func withBatch(key string, fn func(b *store.Batch) error) {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

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

func citationAt(b *store.Batch, arg string) (int, *citation.Citation, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, nil, fmt.Errorf("index must be a number: %s", arg)
	}
	citations := b.Citations()
	if i < 0 || i >= len(citations) {
		return 0, nil, fmt.Errorf("index %d out of range (0-%d)", i, len(citations)-1)
	}
	return i, citations[i], nil
}

func runCiteAdd(cmd *cobra.Command, args []string) error {
	if citeAddFlags.title == "" && citeAddFlags.qid == "" && citeAddFlags.doi == "" {
		exitWithError(ExitDataError, "at least one of --title, --qid, --doi is required")
	}

	key := args[0]
	var added *citation.Citation
	withBatch(key, func(b *store.Batch) error {
		target := &record.Item{
			ItemType: citeAddFlags.itemType,
			Title:    citeAddFlags.title,
			DOI:      citeAddFlags.doi,
		}
		if citeAddFlags.qid != "" {
			target.SetQID(citeAddFlags.qid)
		}
		c := citation.New(b.Item(), target)
		c.Intentions = citeAddFlags.intentions
		b.AddCitation(c)
		added = c
		return nil
	})

	if humanOutput {
		fmt.Printf("Added citation %s -> %s\n", key, added.Target.Title)
	} else {
		outputJSON(added)
	}
	return nil
}

func runCiteList(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	it, err := s.Item(args[0])
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if it == nil {
		exitWithError(ExitError, "record not found: %s", args[0])
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

func runCiteRemove(cmd *cobra.Command, args []string) error {
	key := args[0]
	withBatch(key, func(b *store.Batch) error {
		i, _, err := citationAt(b, args[1])
		if err != nil {
			return err
		}
		b.RemoveCitation(i)
		return nil
	})

	if humanOutput {
		fmt.Printf("Removed citation %s from %s\n", args[1], key)
	} else {
		outputJSON(StatusResponse{Status: "removed", Key: key})
	}
	return nil
}

func runCiteAssert(cmd *cobra.Command, args []string) error {
	supplier := "wikidata"
	if len(args) == 3 {
		supplier = args[2]
	}

	var code string
	withBatch(args[0], func(b *store.Batch) error {
		_, c, err := citationAt(b, args[1])
		if err != nil {
			return err
		}
		if err := c.AddOCI(b.Item(), supplier); err != nil {
			return err
		}
		code = c.GetOCI(supplier).Code
		return nil
	})

	if humanOutput {
		fmt.Printf("Asserted %s\n", code)
	} else {
		outputJSON(StatusResponse{Status: "asserted", Key: code})
	}
	return nil
}

func runCiteRetract(cmd *cobra.Command, args []string) error {
	supplier := "wikidata"
	if len(args) == 3 {
		supplier = args[2]
	}

	withBatch(args[0], func(b *store.Batch) error {
		_, c, err := citationAt(b, args[1])
		if err != nil {
			return err
		}
		if c.GetOCI(supplier) == nil {
			return fmt.Errorf("citation has no %s assertion", supplier)
		}
		c.RemoveOCI(supplier)
		return nil
	})

	if humanOutput {
		fmt.Printf("Retracted %s assertion\n", supplier)
	} else {
		outputJSON(StatusResponse{Status: "retracted"})
	}
	return nil
}
