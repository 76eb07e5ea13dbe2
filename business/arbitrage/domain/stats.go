package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemStats aggregates pipeline counters for the current process.
// Reset on restart; mutated only by the lifecycle controller, so no
// locking is needed here.
type SystemStats struct {
	TotalScans            int64
	OpportunitiesDetected int64
	OpportunitiesApproved int64
	ExecutionsAttempted   int64
	ExecutionsSuccessful  int64
	TotalProfit           decimal.Decimal // USD, only grows on success
	StartedAt             time.Time
}

// NewSystemStats returns zeroed stats anchored at now.
func NewSystemStats() *SystemStats {
	return &SystemStats{
		TotalProfit: decimal.Zero,
		StartedAt:   time.Now(),
	}
}

// RecordScan counts one completed scan cycle.
func (s *SystemStats) RecordScan() { s.TotalScans++ }

// RecordDetected counts newly detected opportunities.
func (s *SystemStats) RecordDetected(n int) { s.OpportunitiesDetected += int64(n) }

// RecordApproved counts one risk approval.
func (s *SystemStats) RecordApproved() { s.OpportunitiesApproved++ }

// RecordExecutionAttempt counts entry into the executing state.
func (s *SystemStats) RecordExecutionAttempt() { s.ExecutionsAttempted++ }

// RecordExecutionSuccess counts a completed execution and adds its
// realized profit.
func (s *SystemStats) RecordExecutionSuccess(actualProfit decimal.Decimal) {
	s.ExecutionsSuccessful++
	s.TotalProfit = s.TotalProfit.Add(actualProfit)
}

// SuccessRate is successes over attempts, zero when nothing ran.
func (s *SystemStats) SuccessRate() decimal.Decimal {
	if s.ExecutionsAttempted == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.ExecutionsSuccessful).Div(decimal.NewFromInt(s.ExecutionsAttempted))
}

// Uptime is the time elapsed since the stats were created.
func (s *SystemStats) Uptime() time.Duration {
	return time.Since(s.StartedAt)
}

// StatsSnapshot is an immutable copy handed to observers.
type StatsSnapshot struct {
	TotalScans            int64           `json:"totalScans"`
	OpportunitiesDetected int64           `json:"opportunitiesDetected"`
	OpportunitiesApproved int64           `json:"opportunitiesApproved"`
	ExecutionsAttempted   int64           `json:"executionsAttempted"`
	ExecutionsSuccessful  int64           `json:"executionsSuccessful"`
	TotalProfit           decimal.Decimal `json:"totalProfit"`
	SuccessRate           decimal.Decimal `json:"successRate"`
	UptimeSeconds         int64           `json:"uptimeSeconds"`
}

// Snapshot copies the current counters.
func (s *SystemStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalScans:            s.TotalScans,
		OpportunitiesDetected: s.OpportunitiesDetected,
		OpportunitiesApproved: s.OpportunitiesApproved,
		ExecutionsAttempted:   s.ExecutionsAttempted,
		ExecutionsSuccessful:  s.ExecutionsSuccessful,
		TotalProfit:           s.TotalProfit,
		SuccessRate:           s.SuccessRate(),
		UptimeSeconds:         int64(s.Uptime().Seconds()),
	}
}
