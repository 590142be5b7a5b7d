package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm shows a warning box with the given bullet points and asks a
// yes/no question. Only "y" or "yes" (any case) confirms; EOF or anything
// else declines.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string, question string) bool {
	lines := []string{
		"",
		WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	width := p.width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	p.Println(boxStyle(WarningColor, width).Render(strings.Join(lines, "\n")))
	p.Newline()

	p.Print(WarningTitleStyle.Render(question + " [y/N]: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		p.Newline()
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		p.Newline()
		return true
	}

	p.Newline()
	p.PrintMuted("  Operation cancelled.")
	return false
}
