package main

import (
	"fmt"

	"github.com/matsen/citelink/internal/record"
	"github.com/spf13/cobra"
)

var addFlags struct {
	itemType string
	title    string
	doi      string
	isbn     string
	url      string
	date     string
	qid      string
	creators []string
}

func init() {
	addCmd.Flags().StringVar(&addFlags.itemType, "type", "journalArticle", "Item type (journalArticle, book, ...)")
	addCmd.Flags().StringVar(&addFlags.title, "title", "", "Title")
	addCmd.Flags().StringVar(&addFlags.doi, "doi", "", "DOI")
	addCmd.Flags().StringVar(&addFlags.isbn, "isbn", "", "ISBN")
	addCmd.Flags().StringVar(&addFlags.url, "url", "", "URL")
	addCmd.Flags().StringVar(&addFlags.date, "date", "", "Publication date (YYYY or YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addFlags.qid, "qid", "", "Wikidata entity (Qnnn)")
	addCmd.Flags().StringArrayVar(&addFlags.creators, "creator", nil, `Creator ("Last, First" or organization name), repeatable`)
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record to the library",
	Long: `Add a bibliographic record to the library.

Example:
  cil add --title "On Growth and Form" --type book --creator "Thompson, D'Arcy" --date 1917 --qid Q1474884`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addFlags.title == "" {
		exitWithError(ExitDataError, "--title is required")
	}

	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	it := &record.Item{
		ItemType: addFlags.itemType,
		Title:    addFlags.title,
		DOI:      addFlags.doi,
		ISBN:     addFlags.isbn,
		URL:      addFlags.url,
		Date:     addFlags.date,
	}
	if addFlags.qid != "" {
		it.SetQID(addFlags.qid)
	}
	for _, c := range addFlags.creators {
		it.Creators = append(it.Creators, parseCreator(c))
	}

	if err := s.AddItem(it); err != nil {
		exitWithError(ExitError, "adding record: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added %s: %s\n", it.Key, it.Title)
	} else {
		outputJSON(it)
	}

	return nil
}
