// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/syllabus-parser/internal/catalog"
	"github.com/jonathan/syllabus-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

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

// PrintExtraction outputs a summary of the text extraction step.
func (p *Printer) PrintExtraction(extracted *types.ExtractedText) {
	if extracted == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Format:   %s\n", extracted.Format))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", extracted.PageCount))
	sb.WriteString(fmt.Sprintf("Chars:    %d\n", extracted.TotalYield()))
	sb.WriteString(fmt.Sprintf("Source:   %s", extracted.SourceMethod))
	if extracted.Confidence != nil {
		sb.WriteString(fmt.Sprintf("\nOCR conf: %.1f%%", *extracted.Confidence))
	}

	if len(extracted.PerPageYield) > 1 {
		sb.WriteString("\n\nPer-page yield:\n")
		count := min(len(extracted.PerPageYield), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  page %d: %d chars\n", i+1, extracted.PerPageYield[i]))
		}
		if len(extracted.PerPageYield) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more pages\n", len(extracted.PerPageYield)-maxItemsToShow))
		}
	}

	p.printBox("TEXT EXTRACTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCatalog outputs the current backend catalog snapshot.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCatalog(descriptors []catalog.ModelDescriptor) {
	if len(descriptors) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO BACKENDS AVAILABLE")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d backends available:\n\n", len(descriptors)))

	for i, d := range descriptors {
		location := "remote"
		if d.Local {
			location = "local"
		}
		sb.WriteString(fmt.Sprintf("• %s\n", d.ID))
		sb.WriteString(fmt.Sprintf("  %s/%s tier, %s, cost %d\n",
			d.Provider, d.PerformanceTier, location, d.ApproxResourceCost))
		if i < len(descriptors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PROVIDER CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintConfidenceReport outputs the field-population confidence summary.
func (p *Printer) PrintConfidenceReport(report *types.ConfidenceReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %.2f\n", report.Score))
	sb.WriteString(fmt.Sprintf("Review:   %v\n", report.RequiresReview))
	sb.WriteString(fmt.Sprintf("Fields:   %d extracted, %d missing\n",
		len(report.ExtractedFields), len(report.MissingFields)))

	if len(report.MissingFields) > 0 {
		sb.WriteString("\nMissing:\n")
		count := min(len(report.MissingFields), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", report.MissingFields[i]))
		}
		if len(report.MissingFields) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.MissingFields)-maxItemsToShow))
		}
	}

	p.printBox("CONFIDENCE REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintParsedRecord outputs a human-readable summary of the parsed syllabus.
func (p *Printer) PrintParsedRecord(record *types.ParsedRecord) {
	if record == nil {
		return
	}

	str := func(s *string) string {
		if s == nil {
			return "(none)"
		}
		return *s
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Course:   %s\n", str(record.CourseInfo.CourseName)))
	sb.WriteString(fmt.Sprintf("Code:     %s\n", str(record.CourseInfo.CourseCode)))
	sb.WriteString(fmt.Sprintf("Term:     %s\n", str(record.CourseInfo.Term)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Schedule:    %d entries\n", len(record.Schedule)))
	sb.WriteString(fmt.Sprintf("Assignments: %d\n", len(record.Assignments)))
	sb.WriteString(fmt.Sprintf("Readings:    %d\n", len(record.Readings)))
	sb.WriteString(fmt.Sprintf("Contacts:    %d\n", len(record.Contacts)))

	if len(record.Assignments) > 0 {
		sb.WriteString("\nAssignments:\n")
		count := min(len(record.Assignments), maxItemsToShow)
		for i := 0; i < count; i++ {
			a := record.Assignments[i]
			sb.WriteString(fmt.Sprintf("  • %s", str(a.Name)))
			if a.Weight != nil {
				sb.WriteString(fmt.Sprintf(" (%.0f%%)", *a.Weight))
			}
			sb.WriteString("\n")
		}
		if len(record.Assignments) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Assignments)-maxItemsToShow))
		}
	}

	p.printBox("PARSED SYLLABUS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the final pipeline result summary.
func (p *Printer) PrintResult(result *types.ParsingResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	status := "✅ SUCCESS"
	if !result.Success {
		status = "⚠ FAILED"
	}
	sb.WriteString(fmt.Sprintf("Status:     %s\n", status))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", result.Confidence))
	sb.WriteString(fmt.Sprintf("Provider:   %s\n", result.Metadata.Provider))

	if len(result.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range result.Errors {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", e))
		}
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		count := min(len(result.Warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Warnings[i]))
		}
		if len(result.Warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Warnings)-maxItemsToShow))
		}
	}

	p.printBox("PARSE RESULT", strings.TrimSuffix(sb.String(), "\n"))
}
