package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <key> <field> <value>",
	Short: "Set a metadata field on a record",
	Long: `Set a metadata field on a record. Fields: title, doi, isbn, url,
date, extra. Use "qid" to set the Wikidata entity.

Example:
  cil set AB12CD34 doi 10.1093/sysbio/syy032`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	key, field, value := args[0], args[1], args[2]
	it, err := s.Item(key)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if it == nil {
		exitWithError(ExitError, "record not found: %s", key)
	}

	if field == "qid" {
		it.SetQID(value)
	} else if err := it.SetField(field, value); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if err := s.SaveItem(it, false); err != nil {
		exitWithError(ExitError, "saving record: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s.%s = %s\n", key, field, value)
	} else {
		outputJSON(StatusResponse{Status: "updated", Key: key})
	}

	return nil
}
