// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	executionDomain "github.com/fd1az/defi-agents/business/execution/domain"
	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
)

// PriceScanner is the slice of the pricing context the controller
// consumes. Failed pairs are skipped, not returned.
type PriceScanner interface {
	ScanPairs(ctx context.Context, pairs []pricingDomain.Pair, onProgress func(done, total int)) []*pricingDomain.PriceObservation
}

// Executor attempts a trade. All failure modes are reported inside the
// result; the executor never retries.
type Executor interface {
	Execute(ctx context.Context, params *domain.TradeParams, expectedProfit decimal.Decimal) *executionDomain.ExecutionResult
}

// EventSink receives push notifications on every observable change.
// Implementations must not block; the controller calls them from its
// command loop. Opportunity arguments are per-event snapshots, never
// the loop-owned records, so sinks may hold them indefinitely.
type EventSink interface {
	AgentStatus(status domain.AgentStatus)
	OpportunityDetected(opp *domain.Opportunity)
	OpportunityUpdated(opp *domain.Opportunity)
	ApprovalRequired(opp *domain.Opportunity)
	StatsUpdated(stats domain.StatsSnapshot)
	ScanProgress(done, total int, nextScanIn time.Duration)
	Activity(rec domain.ActivityRecord)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) AgentStatus(domain.AgentStatus)          {}
func (NopSink) OpportunityDetected(*domain.Opportunity) {}
func (NopSink) OpportunityUpdated(*domain.Opportunity)  {}
func (NopSink) ApprovalRequired(*domain.Opportunity)    {}
func (NopSink) StatsUpdated(domain.StatsSnapshot)       {}
func (NopSink) ScanProgress(int, int, time.Duration)    {}
func (NopSink) Activity(domain.ActivityRecord)          {}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) AgentStatus(s domain.AgentStatus) {
	for _, sink := range m {
		sink.AgentStatus(s)
	}
}

func (m MultiSink) OpportunityDetected(opp *domain.Opportunity) {
	for _, sink := range m {
		sink.OpportunityDetected(opp)
	}
}

func (m MultiSink) OpportunityUpdated(opp *domain.Opportunity) {
	for _, sink := range m {
		sink.OpportunityUpdated(opp)
	}
}

func (m MultiSink) ApprovalRequired(opp *domain.Opportunity) {
	for _, sink := range m {
		sink.ApprovalRequired(opp)
	}
}

func (m MultiSink) StatsUpdated(stats domain.StatsSnapshot) {
	for _, sink := range m {
		sink.StatsUpdated(stats)
	}
}

func (m MultiSink) ScanProgress(done, total int, nextScanIn time.Duration) {
	for _, sink := range m {
		sink.ScanProgress(done, total, nextScanIn)
	}
}

func (m MultiSink) Activity(rec domain.ActivityRecord) {
	for _, sink := range m {
		sink.Activity(rec)
	}
}
