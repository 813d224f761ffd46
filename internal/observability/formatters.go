// Package observability provides formatted output utilities for verbose
// CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/vladimir/product-scraper/internal/db"
	"github.com/vladimir/product-scraper/internal/ingest"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDiscoverySummary outputs a human-readable summary of one discovery
// pass.
func (p *Printer) PrintDiscoverySummary(s *ingest.Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Files seen:      %d\n", s.FilesSeen))
	sb.WriteString(fmt.Sprintf("Files skipped:   %d\n", s.FilesSkipped))
	sb.WriteString(fmt.Sprintf("HTML stored:     %d\n", s.HTMLStored))
	sb.WriteString(fmt.Sprintf("URLs stored:     %d\n", s.URLsStored))
	sb.WriteString(fmt.Sprintf("URLs skipped:    %d", s.URLsSkipped))

	p.printBox("Discovery", sb.String())
}

// PrintBatchResult outputs a human-readable summary of a batch persist.
func (p *Printer) PrintBatchResult(filename string, result db.BatchResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Artifact:   %s\n", filename))
	sb.WriteString(fmt.Sprintf("Succeeded:  %d\n", result.SuccessCount))
	sb.WriteString(fmt.Sprintf("Failed:     %d", result.ErrorCount))

	for _, e := range result.Errors {
		sb.WriteString(fmt.Sprintf("\n  [%d] %s: %s", e.Index, e.Name, e.Message))
	}

	p.printBox("Batch result", sb.String())
}
