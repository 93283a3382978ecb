package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/philipparndt/parambatch/internal/models"
)

var (
	failedBoxStyle = boxStyle.BorderForeground(errorColor)
	failedLine     = lipgloss.NewStyle().Foreground(errorColor)
	skippedLine    = warningStyle
)

// RenderSummary formats the batch messages for the summary box
func RenderSummary(result *models.BatchResult) string {
	var lines []string
	if result.Success {
		lines = append(lines, successStyle.Render("Batch export complete"))
	} else {
		lines = append(lines, errorStyle.Render("Batch export finished with errors"))
	}
	lines = append(lines, "")

	for _, msg := range result.Messages {
		switch {
		case strings.Contains(msg, ": FAILED ("):
			lines = append(lines, cross.String()+" "+failedLine.Render(msg))
		case strings.Contains(msg, ": Skipped "):
			lines = append(lines, "⚠ "+skippedLine.Render(msg))
		default:
			lines = append(lines, checkmark.String()+" "+msg)
		}
	}

	failed := 0
	for _, o := range result.Outcomes {
		if o.Failed() {
			failed++
		}
	}
	lines = append(lines, "", infoStyle.Render(fmt.Sprintf("%d model(s), %d failed, run %s",
		len(result.Outcomes), failed, result.RunID)))
	return strings.Join(lines, "\n")
}

// PrintSummary shows the batch outcome in a box, red when anything failed
func PrintSummary(result *models.BatchResult) {
	content := RenderSummary(result)
	if result.Success {
		PrintBox(content)
		return
	}
	fmt.Println(failedBoxStyle.Render(content))
}
