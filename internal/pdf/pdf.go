// Package pdf extracts bibliographic identifiers from PDF files and files
// attachments under the configured PDF root.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI extracts a DOI from a PDF file. It searches the first few
// pages; an absent DOI is reported as "", not an error.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// The DOI is almost always on the first page; three covers scanned
	// front matter.
	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// ExtractTitle attempts to extract the title from a PDF: the first
// substantial line of the first page that does not look like a running
// header.
func ExtractTitle(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", nil
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return "", nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line, nil
		}
	}

	return "", nil
}

// FindDOI finds the first plausible DOI in text.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// isHeaderLine checks if a line is likely a running header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	return false
}
