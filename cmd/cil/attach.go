package main

import (
	"fmt"

	"github.com/matsen/citelink/internal/config"
	"github.com/matsen/citelink/internal/pdf"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(openCmd)
}

var attachCmd = &cobra.Command{
	Use:   "attach <key> <pdf-path>",
	Short: "File a PDF under the configured root and fill in its DOI",
	Long: `Copy a PDF into the configured pdf_root under the record's key.
If the record has no DOI yet and one can be extracted from the PDF, it is
stored on the record.`,
	Args: cobra.ExactArgs(2),
	RunE: runAttach,
}

var openCmd = &cobra.Command{
	Use:   "open <key>",
	Short: "Print the stored PDF path for a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

// AttachResponse reports where the PDF was filed and any extracted DOI.
type AttachResponse struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	DOI  string `json:"doi,omitempty"`
}

func runAttach(cmd *cobra.Command, args []string) error {
	root, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if cfg.PDFRoot == "" {
		exitWithError(ExitConfigError, "pdf_root not configured; run: cil config set pdf_root <path>")
	}

	key, srcPath := args[0], args[1]
	it, err := s.Item(key)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if it == nil {
		exitWithError(ExitError, "record not found: %s", key)
	}

	stored, err := pdf.File(config.ExpandPath(cfg.PDFRoot), key, srcPath)
	if err != nil {
		exitWithError(ExitError, "filing PDF: %v", err)
	}

	resp := AttachResponse{Key: key, Path: stored}
	if it.DOI == "" {
		doi, err := pdf.ExtractDOI(stored)
		if err == nil && doi != "" {
			it.DOI = doi
			if err := s.SaveItem(it, false); err != nil {
				exitWithError(ExitError, "saving record: %v", err)
			}
			resp.DOI = doi
		}
	}

	if humanOutput {
		fmt.Printf("Filed %s\n", stored)
		if resp.DOI != "" {
			fmt.Printf("Extracted DOI: %s\n", resp.DOI)
		}
	} else {
		outputJSON(resp)
	}
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	root, s, err := openLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer s.Close()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	path, err := pdf.Resolve(config.ExpandPath(cfg.PDFRoot), args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Println(path)
	} else {
		outputJSON(StatusResponse{Status: "ok", Key: args[0], Path: path})
	}
	return nil
}
