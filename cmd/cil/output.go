package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citelink/internal/record"
)

const (
	ListTitleMaxLen = 50 // Title truncation in list output
	TextWrapWidth   = 60 // Standard text wrap width
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Key    string `json:"key,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// formatCreator formats a creator as "First Last" or the single-field name.
func formatCreator(c record.Creator) string {
	if c.Single || c.First == "" {
		return c.Last
	}
	return c.First + " " + c.Last
}

// formatCreators formats creators with "et al." past maxCount.
func formatCreators(creators []record.Creator, maxCount int) string {
	if len(creators) == 0 {
		return ""
	}

	var names []string
	for i, c := range creators {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, formatCreator(c))
	}
	return strings.Join(names, ", ")
}

// parseCreator parses a --creator flag value: "Last, First" or a single
// organization name.
func parseCreator(value string) record.Creator {
	if i := strings.Index(value, ","); i >= 0 {
		return record.Creator{
			Last:  strings.TrimSpace(value[:i]),
			First: strings.TrimSpace(value[i+1:]),
		}
	}
	return record.Creator{Last: strings.TrimSpace(value), Single: true}
}
