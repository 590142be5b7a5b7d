package display

import "strings"

const (
	// DefaultHeading is shown above the message when no override is configured
	DefaultHeading = "Flask + React Connected ✅"

	// LoadingText stands in for a message that has not arrived
	LoadingText = "Loading..."
)

// State is the view data: the message text. Empty means not yet loaded.
type State struct {
	Message string
}

// Loaded reports whether a non-empty message has arrived. An empty
// message from the backend counts as not loaded.
func (s State) Loaded() bool {
	return s.Message != ""
}

// Text is the line shown below the heading.
func (s State) Text() string {
	if !s.Loaded() {
		return LoadingText
	}
	return s.Message
}

// Render returns the unstyled view: the heading, a blank line, then the
// message or the loading placeholder. The interactive view and the
// one-shot fetch command both build on it.
func Render(heading string, s State) string {
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	b.WriteString(s.Text())
	return b.String()
}
