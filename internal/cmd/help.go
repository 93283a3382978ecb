package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderRunHelp renders the help text for the run command with lipgloss styling
func renderRunHelp() string {
	// Define styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Export one STEP file per parameter set"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("parambatch run batch.json --design bracket.yaml"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Keep a machine readable report and STL meshes"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("parambatch run batch.yaml -d bracket.yaml --stl -r report.json"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Batch file keys:"))
	b.WriteString("\n")

	keys := []struct {
		key  string
		desc string
	}{
		{"unit", "Unit for numeric values (default mm)"},
		{"outputDirectory", "Where STEP files go (required)"},
		{"gcodeDirectory", "Where posted programs go"},
		{"ncProgramName", "NC program to post"},
		{"operationName", "Operation whose toolpath is regenerated"},
		{"models", "List of {name, height, width, thickness}"},
	}

	// Calculate max key width for alignment
	maxWidth := 0
	for _, k := range keys {
		if len(k.key) > maxWidth {
			maxWidth = len(k.key)
		}
	}

	for _, k := range keys {
		padding := strings.Repeat(" ", maxWidth-len(k.key)+2)
		b.WriteString("  " + flagStyle.Render(k.key) + padding + commentStyle.Render(k.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("G-code is posted only when all three CAM keys are set"))
	b.WriteString("\n")
	b.WriteString("  " + commentStyle.Render("Values may be numbers or expressions such as \"2 * height\""))
	b.WriteString("\n")

	return b.String()
}
