package ui

import (
	"time"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
)

// Message types for TUI updates

// OpportunityMsg is sent when a new opportunity is detected.
type OpportunityMsg struct {
	Opportunity *domain.Opportunity
}

// OpportunityUpdateMsg carries a snapshot of an opportunity whose
// status changed.
type OpportunityUpdateMsg struct {
	Opportunity *domain.Opportunity
}

// StatsMsg carries a fresh statistics snapshot.
type StatsMsg struct {
	Stats domain.StatsSnapshot
}

// AgentStatusMsg is sent when an agent's state changes.
type AgentStatusMsg struct {
	Status domain.AgentStatus
}

// ScanProgressMsg reports per-pair progress within a scan cycle.
type ScanProgressMsg struct {
	Done       int
	Total      int
	NextScanIn time.Duration
}

// ActivityMsg carries one pipeline activity record.
type ActivityMsg struct {
	Record domain.ActivityRecord
}

// RunningMsg reports whether the scan loop is active.
type RunningMsg struct {
	Running bool
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
