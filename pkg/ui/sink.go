package ui

import (
	"time"

	arbitrageApp "github.com/fd1az/defi-agents/business/arbitrage/app"
	"github.com/fd1az/defi-agents/business/arbitrage/domain"
)

// Sink forwards pipeline events into the running Bubble Tea program.
// Program.Send is safe from any goroutine and never blocks, which is
// what the controller requires of its event sink.
type Sink struct{}

func (Sink) AgentStatus(status domain.AgentStatus) {
	Send(AgentStatusMsg{Status: status})
}

func (Sink) OpportunityDetected(opp *domain.Opportunity) {
	Send(OpportunityMsg{Opportunity: opp})
}

func (Sink) OpportunityUpdated(opp *domain.Opportunity) {
	Send(OpportunityUpdateMsg{Opportunity: opp})
}

// ApprovalRequired needs no dedicated frame here: the pending row and
// the awaiting_approval activity entry already render the prompt.
func (Sink) ApprovalRequired(*domain.Opportunity) {}

func (Sink) StatsUpdated(stats domain.StatsSnapshot) {
	Send(StatsMsg{Stats: stats})
}

func (Sink) ScanProgress(done, total int, nextScanIn time.Duration) {
	Send(ScanProgressMsg{Done: done, Total: total, NextScanIn: nextScanIn})
}

func (Sink) Activity(rec domain.ActivityRecord) {
	Send(ActivityMsg{Record: rec})
}

var _ arbitrageApp.EventSink = Sink{}
