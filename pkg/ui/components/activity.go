// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ActivityEntry is one line in the live activity feed.
type ActivityEntry struct {
	Time     string
	Agent    string
	Detail   string
	Severity string // "info", "success", "warning", "error"
}

// ActivityComponent renders the live activity feed.
type ActivityComponent struct {
	entries []ActivityEntry
	maxRows int
}

// NewActivityComponent creates a new activity component.
func NewActivityComponent(maxRows int) *ActivityComponent {
	return &ActivityComponent{
		entries: make([]ActivityEntry, 0, maxRows),
		maxRows: maxRows,
	}
}

// Add appends an activity entry, keeping only the newest maxRows.
func (a *ActivityComponent) Add(entry ActivityEntry) {
	a.entries = append(a.entries, entry)
	if len(a.entries) > a.maxRows {
		a.entries = a.entries[len(a.entries)-a.maxRows:]
	}
}

// Clear removes all entries.
func (a *ActivityComponent) Clear() {
	a.entries = a.entries[:0]
}

var severityStyles = map[string]lipgloss.Style{
	"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	"success": lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
}

// View renders the activity component.
func (a *ActivityComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	agentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("LIVE ACTIVITY"))
	sb.WriteString("\n\n")

	if len(a.entries) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for scans..."))
		return sb.String()
	}

	for _, entry := range a.entries {
		style, ok := severityStyles[entry.Severity]
		if !ok {
			style = mutedStyle
		}
		sb.WriteString(mutedStyle.Render("  [" + entry.Time + "] "))
		sb.WriteString(agentStyle.Render(entry.Agent))
		sb.WriteString(style.Render(" " + entry.Detail))
		sb.WriteString("\n")
	}

	return sb.String()
}
