package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSystemStatsCounters(t *testing.T) {
	s := NewSystemStats()

	s.RecordScan()
	s.RecordScan()
	s.RecordDetected(3)
	s.RecordApproved()
	s.RecordExecutionAttempt()
	s.RecordExecutionAttempt()
	s.RecordExecutionSuccess(decimal.RequireFromString("12.50"))

	snap := s.Snapshot()
	if snap.TotalScans != 2 {
		t.Errorf("TotalScans = %d, want 2", snap.TotalScans)
	}
	if snap.OpportunitiesDetected != 3 {
		t.Errorf("OpportunitiesDetected = %d, want 3", snap.OpportunitiesDetected)
	}
	if snap.OpportunitiesApproved != 1 {
		t.Errorf("OpportunitiesApproved = %d, want 1", snap.OpportunitiesApproved)
	}
	if snap.ExecutionsAttempted != 2 || snap.ExecutionsSuccessful != 1 {
		t.Errorf("executions = %d/%d, want 1/2", snap.ExecutionsSuccessful, snap.ExecutionsAttempted)
	}
	if !snap.TotalProfit.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("TotalProfit = %s, want 12.50", snap.TotalProfit)
	}
	if !snap.SuccessRate.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("SuccessRate = %s, want 0.5", snap.SuccessRate)
	}
}

func TestSystemStatsSuccessRateNoAttempts(t *testing.T) {
	s := NewSystemStats()
	if !s.SuccessRate().IsZero() {
		t.Errorf("SuccessRate() = %s, want 0 with no attempts", s.SuccessRate())
	}
}

func TestSystemStatsProfitAccumulates(t *testing.T) {
	s := NewSystemStats()
	s.RecordExecutionAttempt()
	s.RecordExecutionSuccess(decimal.RequireFromString("10.10"))
	s.RecordExecutionAttempt()
	s.RecordExecutionSuccess(decimal.RequireFromString("-2.10"))

	if !s.TotalProfit.Equal(decimal.RequireFromString("8.00")) {
		t.Errorf("TotalProfit = %s, want 8.00", s.TotalProfit)
	}
}
