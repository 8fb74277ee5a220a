package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteRemoveCmd)
	rootCmd.AddCommand(noteCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes attached to records",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <key> <content>",
	Short: "Attach a note to a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list <key>",
	Short: "List a record's notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteList,
}

var noteRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a note by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRemove,
}

// NoteResponse is one stored note.
type NoteResponse struct {
	ID      int64  `json:"id"`
	Key     string `json:"key,omitempty"`
	Content string `json:"content,omitempty"`
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	key, content := args[0], args[1]
	it, err := s.Item(key)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if it == nil {
		exitWithError(ExitError, "record not found: %s", key)
	}

	id, err := s.CreateNote(key, content)
	if err != nil {
		exitWithError(ExitError, "creating note: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added note %d to %s\n", id, key)
	} else {
		outputJSON(NoteResponse{ID: id, Key: key})
	}
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	notes, err := s.Notes(args[0])
	if err != nil {
		exitWithError(ExitError, "listing notes: %v", err)
	}

	if humanOutput {
		for id, content := range notes {
			fmt.Printf("[%d] %s\n", id, content)
		}
	} else {
		out := make([]NoteResponse, 0, len(notes))
		for id, content := range notes {
			out = append(out, NoteResponse{ID: id, Key: args[0], Content: content})
		}
		outputJSON(out)
	}
	return nil
}

func runNoteRemove(cmd *cobra.Command, args []string) error {
	_, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitWithError(ExitDataError, "note id must be a number: %s", args[0])
	}
	if err := s.DeleteNote(id); err != nil {
		exitWithError(ExitError, "deleting note: %v", err)
	}

	if humanOutput {
		fmt.Printf("Removed note %d\n", id)
	} else {
		outputJSON(StatusResponse{Status: "removed"})
	}
	return nil
}
