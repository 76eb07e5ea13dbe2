// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds pipeline statistics for display.
type Stats struct {
	TotalScans     int64
	Detected       int64
	Approved       int64
	Attempted      int64
	Successful     int64
	TotalProfitUSD float64
	SuccessRate    float64 // 0..1
	UptimeSeconds  int64
}

// StatsComponent renders pipeline statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	lossStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	profitDisplay := profitStyle.Render(fmt.Sprintf("$%.2f", s.stats.TotalProfitUSD))
	if s.stats.TotalProfitUSD < 0 {
		profitDisplay = lossStyle.Render(fmt.Sprintf("$%.2f", s.stats.TotalProfitUSD))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Scans: %s  │  Detected: %s  │  Approved: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.TotalScans)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Detected)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Approved)),
		) +
		fmt.Sprintf("Executions: %s/%s (%.1f%%)  │  Profit: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Successful)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Attempted)),
			s.stats.SuccessRate*100,
			profitDisplay,
		)
}
