package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/msgview/internal/version"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 40
	TopMargin        = 2 // Blank lines above the heading
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple
	TextColor    = lipgloss.Color("#FFFFFF") // White
	SubtleColor  = lipgloss.Color("#626262") // Gray
	BorderColor  = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

var (
	// HeadingStyle renders the fixed heading above the message
	HeadingStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	// MessageStyle renders a loaded message
	MessageStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// PlaceholderStyle renders the loading placeholder
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true)

	// SpinnerStyle colors the spinner shown while the message loads
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// EndpointStyle renders the endpoint line in the header bar
	EndpointStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// HelpStyle renders the key help below the view
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingTop(1)
)

// buildHeader shows the application name and the endpoint being read.
func buildHeader(endpoint string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render("msgview " + version.Version)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", EndpointStyle.Render(endpoint))
}

// renderContainer centers content in the terminal with a header bar on top
// and help text at the bottom. Before the first WindowSizeMsg the width and
// height are zero and the pieces are simply stacked.
func renderContainer(header, content, footer string, width, height int) string {
	if width < MinTerminalWidth || height <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", content, footer)
	}

	headerBar := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width).
		Render(header)

	footerBar := lipgloss.NewStyle().
		Width(width).
		Render(footer)

	bodyHeight := height - lipgloss.Height(headerBar) - lipgloss.Height(footerBar)
	if bodyHeight < lipgloss.Height(content) {
		bodyHeight = lipgloss.Height(content)
	}

	body := lipgloss.Place(
		width,
		bodyHeight,
		lipgloss.Center,
		lipgloss.Top,
		lipgloss.NewStyle().MarginTop(TopMargin).Render(content),
	)

	return lipgloss.JoinVertical(lipgloss.Left, headerBar, body, footerBar)
}
