// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents an opportunity in the list.
type OpportunityRow struct {
	ID        string
	Time      string
	Pair      string
	Spread    decimal.Decimal // relative
	NetProfit decimal.Decimal // USD, zero until assessed
	RiskLevel string          // empty until assessed
	Status    string
}

// OpportunitiesComponent renders the opportunity lifecycle list.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	index   map[string]int
	maxRows int
	offset  int
	visible int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		index:   make(map[string]int),
		maxRows: maxRows,
		visible: 10,
	}
}

// Add prepends a new opportunity.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
	o.reindex()
}

// SetStatus updates an existing row's status in place.
func (o *OpportunitiesComponent) SetStatus(id, status string) {
	if i, ok := o.index[id]; ok {
		o.rows[i].Status = status
	}
}

// SetAssessment fills in the risk columns once evaluation completes.
func (o *OpportunitiesComponent) SetAssessment(id, riskLevel string, netProfit decimal.Decimal) {
	if i, ok := o.index[id]; ok {
		o.rows[i].RiskLevel = riskLevel
		o.rows[i].NetProfit = netProfit
	}
}

// FirstPending returns the ID of the newest opportunity awaiting a
// decision, or "".
func (o *OpportunitiesComponent) FirstPending() string {
	for _, row := range o.rows {
		if row.Status == "pending_approval" {
			return row.ID
		}
	}
	return ""
}

// Clear removes all rows.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.index = make(map[string]int)
	o.offset = 0
}

// ScrollUp moves the viewport up.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the viewport down.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset < len(o.rows)-o.visible {
		o.offset++
	}
}

func (o *OpportunitiesComponent) reindex() {
	o.index = make(map[string]int, len(o.rows))
	for i, row := range o.rows {
		o.index[row.ID] = i
	}
}

var statusStyles = map[string]lipgloss.Style{
	"detected":         lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	"assessing":        lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")),
	"approved":         lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	"pending_approval": lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
	"executing":        lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")),
	"completed":        lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	"rejected":         lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	"failed":           lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
}

var riskStyles = map[string]lipgloss.Style{
	"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	if len(o.rows) == 0 {
		return headerStyle.Render("OPPORTUNITIES") + "\n\nNo opportunities detected yet..."
	}

	result := headerStyle.Render("OPPORTUNITIES") + "\n"
	result += "┌──────────┬───────────┬─────────┬──────────┬────────┬──────────────────┐\n"
	result += "│   Time   │   Pair    │ Spread  │   Net    │  Risk  │      Status      │\n"
	result += "├──────────┼───────────┼─────────┼──────────┼────────┼──────────────────┤\n"

	end := o.offset + o.visible
	if end > len(o.rows) {
		end = len(o.rows)
	}

	for _, row := range o.rows[o.offset:end] {
		statusStyle, ok := statusStyles[row.Status]
		if !ok {
			statusStyle = lipgloss.NewStyle()
		}
		riskText := row.RiskLevel
		if riskText == "" {
			riskText = "-"
		}
		riskStyle, ok := riskStyles[row.RiskLevel]
		if !ok {
			riskStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		}
		netText := "-"
		if !row.NetProfit.IsZero() {
			netText = fmt.Sprintf("$%.2f", row.NetProfit.InexactFloat64())
		}

		result += fmt.Sprintf("│ %-8s │ %-9s │%8s │%9s │ %s │ %s│\n",
			row.Time,
			row.Pair,
			fmt.Sprintf("%+.2f%%", row.Spread.InexactFloat64()*100),
			netText,
			riskStyle.Render(fmt.Sprintf("%-6s", riskText)),
			statusStyle.Render(fmt.Sprintf("%-17s", row.Status)),
		)
	}

	result += "└──────────┴───────────┴─────────┴──────────┴────────┴──────────────────┘"

	return result
}
