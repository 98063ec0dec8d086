// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/career-advisor/internal/advisor"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/types"
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func joinClipped(items []string, n int) string {
	return clip(strings.Join(items, ", "), n)
}

// PrintProfile outputs the submitted profile.
func (p *Printer) PrintProfile(profile types.ProfileRequest) {
	var sb strings.Builder

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		sb.WriteString(fmt.Sprintf("%-12s %s\n", label+":", value))
	}
	field("Name", profile.Name)
	field("Education", profile.Education)
	field("Interests", joinClipped(profile.Interests, 40))
	field("Skills", joinClipped(profile.Skills, 40))
	field("Constraints", profile.Constraints)

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCatalogStats outputs the size and dimension of a built index.
func (p *Printer) PrintCatalogStats(path string, idx *catalog.Index) {
	if idx == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:     %s\n", path))
	sb.WriteString(fmt.Sprintf("Careers:    %d\n", idx.Len()))
	sb.WriteString(fmt.Sprintf("Dimension:  %d\n", idx.Dimension()))

	entries := idx.Entries()
	if len(entries) > 0 {
		sb.WriteString("\n")
		count := min(len(entries), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", entries[i].Title))
		}
		if len(entries) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(entries)-maxItemsToShow))
		}
	}

	p.printBox("CATALOG INDEX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRetrieved outputs the top ranked careers with scores and skills.
func (p *Printer) PrintRetrieved(results []types.RankedResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Careers retrieved: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", r.Rank, r.Entry.Title))
		sb.WriteString(fmt.Sprintf("    Score: %.2f\n", r.Score))
		if len(r.Entry.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", joinClipped(r.Entry.Skills, 40)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more careers", len(results)-maxItemsToShow))
	}

	p.printBox("RETRIEVED CAREERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs one pipeline step as a single line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event advisor.ProgressEvent) {
	fmt.Fprintf(p.out, "  ✓ %-9s %s\n", event.Step, event.Message)
}

// PrintOutcome outputs the terminal state and a summary of the result.
func (p *Printer) PrintOutcome(out *advisor.Outcome) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", out.ID))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", out.Mode))
	sb.WriteString(fmt.Sprintf("State:    %s\n", out.State))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", out.Duration.Round(time.Millisecond)))

	switch {
	case out.OK():
		titles := recommendationTitles(out.Payload)
		if len(titles) > 0 {
			sb.WriteString("\nRecommendations:\n")
			for i, title := range titles {
				sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, title))
			}
		}
	case out.Err != nil:
		sb.WriteString(fmt.Sprintf("\nError: %v\n", out.Err))
		if out.Raw != "" {
			sb.WriteString(fmt.Sprintf("Raw:   %s\n", strings.ReplaceAll(out.Raw, "\n", " ")))
		}
	}

	title := "RECOMMENDATION"
	if !out.OK() {
		title = "RECOMMENDATION FAILED"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// recommendationTitles pulls titles out of either payload shape.
func recommendationTitles(payload any) []string {
	if resp, ok := payload.(types.RetrievalResponse); ok {
		titles := make([]string, 0, len(resp.Recommendations))
		for _, r := range resp.Recommendations {
			titles = append(titles, r.Title)
		}
		return titles
	}

	// Generative payloads are model-shaped; go through JSON to tolerate variants.
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var doc struct {
		Recommendations []struct {
			Title string `json:"title"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var titles []string
	for _, r := range doc.Recommendations {
		if r.Title != "" {
			titles = append(titles, r.Title)
		}
	}
	return titles
}
