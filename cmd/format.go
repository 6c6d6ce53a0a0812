package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jlozano/docsight/pkg/client"
	"github.com/jlozano/docsight/pkg/notify"
	"github.com/jlozano/docsight/pkg/snippet"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	emphasisStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")).
			Underline(true)

	answerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	successToastStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("40"))

	errorToastStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var titleCaser = cases.Title(language.English)

// formatResult renders one result card: title, category, the snippet with
// emphasized query matches (or the extracted answer), and source metadata.
func formatResult(index int, result client.SearchResult, query string) string {
	var b strings.Builder

	title := result.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "%d. %s", index, titleStyle.Render(title))
	if result.Category != "" {
		fmt.Fprintf(&b, " %s", categoryStyle.Render("["+titleCaser.String(result.Category)+"]"))
	}
	b.WriteString("\n")

	rendering := snippet.Build(result.Content, query, result.ExtractedAnswer)
	switch rendering.Kind {
	case snippet.KindAnswer:
		b.WriteString(answerStyle.Render(rendering.Answer))
		b.WriteString("\n")
		if rendering.Preview != "" {
			preview := rendering.Preview
			if rendering.TrailingEllipsis {
				preview += "..."
			}
			b.WriteString(metaStyle.Render(preview))
			b.WriteString("\n")
		}
	case snippet.KindExcerpt:
		b.WriteString("   ")
		if rendering.LeadingEllipsis {
			b.WriteString("...")
		}
		for _, segment := range rendering.Segments {
			if segment.Emphasized {
				b.WriteString(emphasisStyle.Render(segment.Text))
			} else {
				b.WriteString(segment.Text)
			}
		}
		if rendering.TrailingEllipsis {
			b.WriteString("...")
		}
		b.WriteString("\n")
	}

	meta := fmt.Sprintf("   score %.2f", result.RelevanceScore)
	if result.Date != "" {
		meta += " | " + result.Date
	}
	b.WriteString(metaStyle.Render(meta))
	b.WriteString("\n   ")
	b.WriteString(urlStyle.Render(result.SourceURL))

	return b.String()
}

// formatStats renders the stats snapshot including the per-weekday activity
// table when the server provides one.
func formatStats(stats client.SystemStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", titleStyle.Render("System statistics"))
	fmt.Fprintf(&b, "  Documents:  %d\n", stats.TotalDocuments)
	fmt.Fprintf(&b, "  Storage:    %s\n", stats.StorageUsed)
	fmt.Fprintf(&b, "  Health:     %s\n", stats.SystemHealth)
	fmt.Fprintf(&b, "  Latency:    %s\n", stats.Latency)

	if len(stats.ActivityData) > 0 {
		b.WriteString("  Activity:\n")
		for _, point := range stats.ActivityData {
			fmt.Fprintf(&b, "    %-4s %d\n", point.Name, point.Files)
		}
	}

	return b.String()
}

// printToast writes toast transitions to the terminal; dismissals are silent.
func printToast(toast notify.Toast) {
	if !toast.Show {
		return
	}
	switch toast.Kind {
	case notify.KindSuccess:
		fmt.Println(successToastStyle.Render("✓ " + toast.Message))
	case notify.KindError:
		fmt.Println(errorToastStyle.Render("✗ " + toast.Message))
	}
}
