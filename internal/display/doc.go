// Package display implements the message view: a fixed heading above a
// single line that reads "Loading..." until the backend's message arrives.
//
// The view is a bubbletea model. Each activation issues exactly one
// request through a Fetcher and tags it with a fresh activation id;
// results from older activations are dropped. A failed fetch writes one
// error entry to the diagnostic logger and leaves the view as it was.
//
//	m, err := display.New(display.Options{APIURL: "/api"})
//	if err != nil {
//		return err
//	}
//	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
package display
