package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/token"
)

func testPair() pricingDomain.Pair {
	return pricingDomain.NewPair(token.WETH, token.USDC)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusDetected, StatusAssessing, true},
		{StatusDetected, StatusApproved, false},
		{StatusDetected, StatusCompleted, false},
		{StatusAssessing, StatusApproved, true},
		{StatusAssessing, StatusRejected, true},
		{StatusAssessing, StatusExecuting, false},
		{StatusApproved, StatusPendingApproval, true},
		{StatusApproved, StatusExecuting, true},
		{StatusApproved, StatusRejected, false},
		{StatusPendingApproval, StatusExecuting, true},
		{StatusPendingApproval, StatusRejected, true},
		{StatusPendingApproval, StatusCompleted, false},
		{StatusExecuting, StatusCompleted, true},
		{StatusExecuting, StatusFailed, true},
		{StatusExecuting, StatusRejected, false},
		// Terminal states admit nothing.
		{StatusCompleted, StatusDetected, false},
		{StatusRejected, StatusAssessing, false},
		{StatusFailed, StatusExecuting, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusDetected:        false,
		StatusAssessing:       false,
		StatusApproved:        false,
		StatusPendingApproval: false,
		StatusExecuting:       false,
		StatusCompleted:       true,
		StatusRejected:        true,
		StatusFailed:          true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestNewOpportunity(t *testing.T) {
	opp := NewOpportunity(
		testPair(),
		decimal.NewFromInt(100),
		decimal.NewFromInt(106),
		decimal.NewFromInt(1),
	)

	if opp.ID == "" {
		t.Error("opportunity has no ID")
	}
	if opp.Status != StatusDetected {
		t.Errorf("Status = %s, want detected", opp.Status)
	}
	if !opp.PotentialProfit.Equal(decimal.RequireFromString("0.06")) {
		t.Errorf("PotentialProfit = %s, want 0.06", opp.PotentialProfit)
	}
	if !opp.PriceDifference.Equal(decimal.RequireFromString("0.06")) {
		t.Errorf("PriceDifference = %s, want 0.06", opp.PriceDifference)
	}
	if opp.Assessment != nil {
		t.Error("new opportunity carries an assessment")
	}
}

func TestNewOpportunityNegativeSpread(t *testing.T) {
	opp := NewOpportunity(
		testPair(),
		decimal.NewFromInt(100),
		decimal.NewFromInt(94),
		decimal.NewFromInt(1),
	)

	if !opp.PotentialProfit.Equal(decimal.RequireFromString("-0.06")) {
		t.Errorf("PotentialProfit = %s, want -0.06", opp.PotentialProfit)
	}
	// PriceDifference is the magnitude, always non-negative.
	if !opp.PriceDifference.Equal(decimal.RequireFromString("0.06")) {
		t.Errorf("PriceDifference = %s, want 0.06", opp.PriceDifference)
	}
}

func TestNewOpportunityUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		opp := NewOpportunity(testPair(), decimal.NewFromInt(100), decimal.NewFromInt(106), decimal.NewFromInt(1))
		if seen[opp.ID] {
			t.Fatalf("duplicate opportunity ID %s", opp.ID)
		}
		seen[opp.ID] = true
	}
}
