// Package ui renders the styled output of msgview's non-interactive
// commands.
//
// Unlike the display view these components follow a "print once" pattern:
// a Header banner, then a Result box or a table, written through a
// Printer. Widths follow the terminal, clamped between MinTerminalWidth
// and MaxContentWidth.
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Fetch message", "msgview fetch", ui.Field{Key: "Endpoint", Value: endpoint})
//	p.PrintSuccess("Message received", ui.Field{Key: "Message", Value: msg})
//
// # Logging Integration
//
// Commands that print through this package keep zap silent unless
// MSGVIEW_LOG_LEVEL is set, so log lines do not interleave with the boxes.
package ui
