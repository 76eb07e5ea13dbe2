// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"time"

	"github.com/fd1az/defi-agents/business/arbitrage/app"
	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/internal/logger"
)

// LogSink implements app.EventSink by writing pipeline events to the
// structured logger. Used in headless mode where there is no dashboard.
type LogSink struct {
	log logger.LoggerInterface
}

// NewLogSink creates a sink that logs every pipeline event.
func NewLogSink(log logger.LoggerInterface) *LogSink {
	return &LogSink{log: log}
}

var _ app.EventSink = (*LogSink)(nil)

func (s *LogSink) AgentStatus(st domain.AgentStatus) {
	s.log.Debug(context.Background(), "agent status",
		"agent", st.Name,
		"state", string(st.State),
		"tasks", st.TasksProcessed,
	)
}

func (s *LogSink) OpportunityDetected(opp *domain.Opportunity) {
	s.log.Info(context.Background(), "opportunity detected",
		"id", opp.ID,
		"pair", opp.Pair.String(),
		"buyPrice", opp.BuyPrice.StringFixed(2),
		"sellPrice", opp.SellPrice.StringFixed(2),
		"potentialProfit", opp.PotentialProfit.StringFixed(6),
	)
}

func (s *LogSink) OpportunityUpdated(opp *domain.Opportunity) {
	s.log.Info(context.Background(), "opportunity updated",
		"id", opp.ID,
		"status", string(opp.Status),
	)
}

func (s *LogSink) ApprovalRequired(opp *domain.Opportunity) {
	s.log.Warn(context.Background(), "opportunity awaiting operator approval",
		"id", opp.ID,
		"pair", opp.Pair.String(),
	)
}

func (s *LogSink) StatsUpdated(stats domain.StatsSnapshot) {
	s.log.Debug(context.Background(), "stats updated",
		"scans", stats.TotalScans,
		"detected", stats.OpportunitiesDetected,
		"attempted", stats.ExecutionsAttempted,
		"successful", stats.ExecutionsSuccessful,
		"totalProfit", stats.TotalProfit.StringFixed(2),
	)
}

func (s *LogSink) ScanProgress(done, total int, nextScanIn time.Duration) {
	if done == total {
		s.log.Debug(context.Background(), "scan cycle complete",
			"pairs", total,
			"nextScanIn", nextScanIn.String(),
		)
	}
}

func (s *LogSink) Activity(rec domain.ActivityRecord) {
	switch rec.Severity {
	case domain.SeverityError:
		s.log.Error(context.Background(), rec.Detail, "agent", rec.Agent, "action", rec.Action)
	case domain.SeverityWarning:
		s.log.Warn(context.Background(), rec.Detail, "agent", rec.Agent, "action", rec.Action)
	default:
		s.log.Info(context.Background(), rec.Detail, "agent", rec.Agent, "action", rec.Action)
	}
}
