// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
)

// Status is the lifecycle state of an opportunity. States only ever
// advance forward; terminal states are never left.
type Status string

const (
	StatusDetected        Status = "detected"
	StatusAssessing       Status = "assessing"
	StatusApproved        Status = "approved"
	StatusPendingApproval Status = "pending_approval"
	StatusExecuting       Status = "executing"
	StatusCompleted       Status = "completed"
	StatusRejected        Status = "rejected"
	StatusFailed          Status = "failed"
)

// transitions is the forward-only state machine.
var transitions = map[Status][]Status{
	StatusDetected:        {StatusAssessing},
	StatusAssessing:       {StatusApproved, StatusRejected},
	StatusApproved:        {StatusPendingApproval, StatusExecuting},
	StatusPendingApproval: {StatusExecuting, StatusRejected},
	StatusExecuting:       {StatusCompleted, StatusFailed},
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Opportunity represents a detected arbitrage opportunity. The
// detector constructs the record; afterwards the lifecycle controller
// is its sole owner and the only writer of Status.
type Opportunity struct {
	ID              string
	Pair            pricingDomain.Pair
	BuyPrice        decimal.Decimal // USD, venue A
	SellPrice       decimal.Decimal // USD, venue B adjusted by exchange rate
	ExchangeRate    decimal.Decimal
	PriceDifference decimal.Decimal // relative, >= 0
	PotentialProfit decimal.Decimal // relative, signed
	Timestamp       time.Time
	Status          Status

	// Assessment is attached once risk evaluation completes. It is
	// immutable and never merged into the opportunity itself.
	Assessment *RiskAssessment
}

// Clone returns a copy safe to read outside the controller loop. The
// assessment pointer is shared: an assessment is immutable once
// attached.
func (o *Opportunity) Clone() *Opportunity {
	cp := *o
	return &cp
}

// NewOpportunity builds an opportunity in the detected state.
func NewOpportunity(pair pricingDomain.Pair, buyPrice, sellPrice, exchangeRate decimal.Decimal) *Opportunity {
	diff := decimal.Zero
	profit := decimal.Zero
	if buyPrice.IsPositive() {
		profit = sellPrice.Sub(buyPrice).Div(buyPrice)
		diff = profit.Abs()
	}
	return &Opportunity{
		ID:              uuid.NewString(),
		Pair:            pair,
		BuyPrice:        buyPrice,
		SellPrice:       sellPrice,
		ExchangeRate:    exchangeRate,
		PriceDifference: diff,
		PotentialProfit: profit,
		Timestamp:       time.Now(),
		Status:          StatusDetected,
	}
}
