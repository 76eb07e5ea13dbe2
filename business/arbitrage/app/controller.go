package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	executionDomain "github.com/fd1az/defi-agents/business/execution/domain"
	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/apperror"
	"github.com/fd1az/defi-agents/internal/logger"
)

// maxOpportunities bounds the retained opportunity list.
const maxOpportunities = 50

// Settings are the runtime-tunable knobs. The controller owns them;
// observers get copies.
type Settings struct {
	ScanInterval    time.Duration
	TradeAmountUSD  decimal.Decimal
	MinProfitUSD    decimal.Decimal // dollars per $100 traded
	MaxSlippage     decimal.Decimal // fraction
	RequireApproval bool
	ApprovalTimeout time.Duration // 0 waits forever
}

// MinProfitThreshold converts MinProfitUSD to a relative margin.
func (s Settings) MinProfitThreshold() decimal.Decimal {
	return s.MinProfitUSD.Div(decimal.NewFromInt(100))
}

// SettingsPatch is a partial settings update. Nil fields are left
// unchanged. Units follow the external API: seconds and percent.
type SettingsPatch struct {
	ScanIntervalSec *int     `json:"scanInterval,omitempty"`
	MinProfitUSD    *float64 `json:"minProfitUSD,omitempty"`
	MaxSlippagePct  *float64 `json:"maxSlippage,omitempty"`
	RequireApproval *bool    `json:"requireApproval,omitempty"`
}

// Validate applies the boundary rules: scanInterval 5-300s,
// minProfitUSD >= 0, maxSlippage percent in (0, 10].
func (p SettingsPatch) Validate() error {
	if p.ScanIntervalSec != nil && (*p.ScanIntervalSec < 5 || *p.ScanIntervalSec > 300) {
		return apperror.Validation(apperror.CodeInvalidSettings,
			fmt.Sprintf("scanInterval must be between 5 and 300 seconds, got %d", *p.ScanIntervalSec))
	}
	if p.MinProfitUSD != nil && *p.MinProfitUSD < 0 {
		return apperror.Validation(apperror.CodeInvalidSettings, "minProfitUSD cannot be negative")
	}
	if p.MaxSlippagePct != nil && (*p.MaxSlippagePct <= 0 || *p.MaxSlippagePct > 10) {
		return apperror.Validation(apperror.CodeInvalidSettings,
			fmt.Sprintf("maxSlippage must be in (0, 10] percent, got %v", *p.MaxSlippagePct))
	}
	return nil
}

// SettingsView is the external representation of Settings.
type SettingsView struct {
	ScanIntervalSec int     `json:"scanInterval"`
	TradeAmountUSD  float64 `json:"tradeAmountUSD"`
	MinProfitUSD    float64 `json:"minProfitUSD"`
	MaxSlippagePct  float64 `json:"maxSlippage"`
	RequireApproval bool    `json:"requireApproval"`
}

// SystemStatus is the GetStatus payload.
type SystemStatus struct {
	Running  bool                 `json:"running"`
	Stats    domain.StatsSnapshot `json:"stats"`
	Settings SettingsView         `json:"settings"`
}

// ControllerConfig wires the controller's fixed dependencies.
type ControllerConfig struct {
	Pairs    []pricingDomain.Pair
	Settings Settings

	// Risk evaluation parameters.
	GasUnits            int64
	GasPrice            decimal.Decimal
	NativeTokenPriceUSD decimal.Decimal
	Thresholds          domain.RiskThresholds

	// Pacing delays between pipeline stages. Zero is valid (tests).
	AssessmentDelay time.Duration
	ExecutionDelay  time.Duration
}

type controllerMetrics struct {
	scans      metric.Int64Counter
	detected   metric.Int64Counter
	executions metric.Int64Counter
	profitUSD  metric.Float64Counter
}

func newControllerMetrics() *controllerMetrics {
	meter := otel.Meter("arbitrage.controller")
	scans, _ := meter.Int64Counter("scans_total",
		metric.WithDescription("Completed scan cycles"))
	detected, _ := meter.Int64Counter("opportunities_detected_total",
		metric.WithDescription("Opportunities produced by the detector"))
	executions, _ := meter.Int64Counter("executions_total",
		metric.WithDescription("Execution attempts"))
	profit, _ := meter.Float64Counter("total_profit_usd",
		metric.WithDescription("Realized profit in USD"))
	return &controllerMetrics{scans: scans, detected: detected, executions: executions, profitUSD: profit}
}

// Controller owns every opportunity's lifecycle, the stats aggregate
// and the agent status records. All mutable state is confined to the
// command loop goroutine; public methods post closures into that loop
// and wait for the answer, which serializes transitions per
// opportunity by construction.
type Controller struct {
	config   ControllerConfig
	scanner  PriceScanner
	executor Executor
	sink     EventSink
	logger   logger.LoggerInterface
	metrics  *controllerMetrics

	commands chan func()
	stopped  chan struct{}

	// Loop-owned state. Never touched outside the command loop.
	running       bool
	settings      Settings
	stats         *domain.SystemStats
	opportunities []*domain.Opportunity // newest first
	byID          map[string]*domain.Opportunity
	agents        map[string]*domain.AgentStatus
	scanCancel    context.CancelFunc
	runCtx        context.Context
}

// NewController builds a controller; call Run to start its loop.
func NewController(cfg ControllerConfig, scanner PriceScanner, executor Executor, sink EventSink, log logger.LoggerInterface) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		config:   cfg,
		scanner:  scanner,
		executor: executor,
		sink:     sink,
		logger:   log,
		metrics:  newControllerMetrics(),
		commands: make(chan func(), 64),
		stopped:  make(chan struct{}),
		settings: cfg.Settings,
		stats:    domain.NewSystemStats(),
		byID:     make(map[string]*domain.Opportunity),
		agents: map[string]*domain.AgentStatus{
			domain.AgentScanner:  {Name: domain.AgentScanner, State: domain.AgentIdle},
			domain.AgentRisk:     {Name: domain.AgentRisk, State: domain.AgentIdle},
			domain.AgentExecutor: {Name: domain.AgentExecutor, State: domain.AgentIdle},
		},
	}
}

// Run processes commands until ctx is cancelled. In-flight executions
// started before cancellation are applied as long as the loop runs.
func (c *Controller) Run(ctx context.Context) {
	c.runCtx = ctx
	defer close(c.stopped)
	for {
		select {
		case <-ctx.Done():
			if c.scanCancel != nil {
				c.scanCancel()
			}
			return
		case cmd := <-c.commands:
			cmd()
		}
	}
}

// do runs fn on the command loop and waits for it to finish.
func (c *Controller) do(fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		fn()
		close(done)
	}
	select {
	case c.commands <- wrapped:
	case <-c.stopped:
		return apperror.New(apperror.CodeAgentsNotRunning, apperror.WithContext("controller loop stopped"))
	}
	select {
	case <-done:
		return nil
	case <-c.stopped:
		return apperror.New(apperror.CodeAgentsNotRunning, apperror.WithContext("controller loop stopped"))
	}
}

// post schedules fn on the command loop without waiting. Used by
// timers and execution goroutines; drops silently once the loop is
// gone.
func (c *Controller) post(fn func()) {
	select {
	case c.commands <- fn:
	case <-c.stopped:
	}
}

// Start begins periodic scanning. Starting a running system reports
// success=false.
func (c *Controller) Start(ctx context.Context) (started bool, err error) {
	err = c.do(func() {
		if c.running {
			return
		}
		c.running = true
		started = true

		scanCtx, cancel := context.WithCancel(c.runCtx)
		c.scanCancel = cancel
		go c.scanLoop(scanCtx)

		c.activity(domain.AgentScanner, "system_start", "Scanning started", domain.SeverityInfo)
		c.logger.Info(ctx, "lifecycle controller started", "pairs", len(c.config.Pairs))
	})
	return started, err
}

// Stop cancels the scan timer. In-flight executions finish and their
// results are still applied. Stopping a stopped system reports
// success=false.
func (c *Controller) Stop(ctx context.Context) (stopped bool, err error) {
	err = c.do(func() {
		if !c.running {
			return
		}
		c.running = false
		stopped = true
		if c.scanCancel != nil {
			c.scanCancel()
			c.scanCancel = nil
		}
		c.activity(domain.AgentScanner, "system_stop", "Scanning stopped; in-flight executions will finish", domain.SeverityInfo)
		c.logger.Info(ctx, "lifecycle controller stopped")
	})
	return stopped, err
}

// UpdateSettings merges a validated patch into the current settings.
func (c *Controller) UpdateSettings(ctx context.Context, patch SettingsPatch) (SettingsView, error) {
	if err := patch.Validate(); err != nil {
		return SettingsView{}, err
	}
	var view SettingsView
	err := c.do(func() {
		if patch.ScanIntervalSec != nil {
			c.settings.ScanInterval = time.Duration(*patch.ScanIntervalSec) * time.Second
		}
		if patch.MinProfitUSD != nil {
			c.settings.MinProfitUSD = decimal.NewFromFloat(*patch.MinProfitUSD)
		}
		if patch.MaxSlippagePct != nil {
			c.settings.MaxSlippage = decimal.NewFromFloat(*patch.MaxSlippagePct).Div(decimal.NewFromInt(100))
		}
		if patch.RequireApproval != nil {
			c.settings.RequireApproval = *patch.RequireApproval
		}
		view = c.settingsView()
		c.activity(domain.AgentScanner, "settings_update", "Settings updated", domain.SeverityInfo)
		c.logger.Info(ctx, "settings updated",
			"scanInterval", c.settings.ScanInterval,
			"requireApproval", c.settings.RequireApproval)
	})
	return view, err
}

// GetStatus returns a snapshot of running state, stats and settings.
func (c *Controller) GetStatus(context.Context) (SystemStatus, error) {
	var status SystemStatus
	err := c.do(func() {
		status = SystemStatus{
			Running:  c.running,
			Stats:    c.stats.Snapshot(),
			Settings: c.settingsView(),
		}
	})
	return status, err
}

// ListOpportunities returns up to maxOpportunities records, newest
// first. The returned records are snapshots taken on the command loop;
// holding them across later transitions is safe.
func (c *Controller) ListOpportunities(context.Context) ([]*domain.Opportunity, error) {
	var out []*domain.Opportunity
	err := c.do(func() {
		out = make([]*domain.Opportunity, len(c.opportunities))
		for i, opp := range c.opportunities {
			out[i] = opp.Clone()
		}
	})
	return out, err
}

// AgentStatuses returns a copy of the per-agent status records.
func (c *Controller) AgentStatuses(context.Context) ([]domain.AgentStatus, error) {
	var out []domain.AgentStatus
	err := c.do(func() {
		for _, a := range c.agents {
			out = append(out, *a)
		}
	})
	return out, err
}

// Approve releases a pending opportunity into execution.
func (c *Controller) Approve(ctx context.Context, id string) error {
	var opErr error
	err := c.do(func() {
		opp, ok := c.byID[id]
		if !ok {
			opErr = apperror.NotFound(apperror.CodeOpportunityNotFound, id)
			return
		}
		if opp.Status != domain.StatusPendingApproval {
			opErr = apperror.Validation(apperror.CodeNotPendingApproval,
				fmt.Sprintf("opportunity %s is %s, not pending approval", id, opp.Status))
			return
		}
		c.activity(domain.AgentRisk, "manual_approve", fmt.Sprintf("Opportunity %s approved by operator", shortID(id)), domain.SeveritySuccess)
		c.startExecution(opp)
	})
	if err != nil {
		return err
	}
	return opErr
}

// Reject discards a pending opportunity.
func (c *Controller) Reject(ctx context.Context, id string) error {
	var opErr error
	err := c.do(func() {
		opp, ok := c.byID[id]
		if !ok {
			opErr = apperror.NotFound(apperror.CodeOpportunityNotFound, id)
			return
		}
		if opp.Status != domain.StatusPendingApproval {
			opErr = apperror.Validation(apperror.CodeNotPendingApproval,
				fmt.Sprintf("opportunity %s is %s, not pending approval", id, opp.Status))
			return
		}
		c.transition(opp, domain.StatusRejected)
		c.activity(domain.AgentRisk, "manual_reject", fmt.Sprintf("Opportunity %s rejected by operator", shortID(id)), domain.SeverityWarning)
	})
	if err != nil {
		return err
	}
	return opErr
}

// scanLoop drives periodic scans until its context is cancelled.
// The scan itself performs network I/O and therefore runs here, not
// on the command loop; results are handed back via post.
func (c *Controller) scanLoop(ctx context.Context) {
	for {
		interval := c.scanInterval()
		c.runScan(ctx, interval)

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (c *Controller) scanInterval() time.Duration {
	interval := 30 * time.Second
	_ = c.do(func() {
		if c.settings.ScanInterval > 0 {
			interval = c.settings.ScanInterval
		}
	})
	return interval
}

func (c *Controller) runScan(ctx context.Context, nextScanIn time.Duration) {
	if ctx.Err() != nil {
		return
	}
	c.post(func() { c.markAgent(domain.AgentScanner, domain.AgentActive) })

	observations := c.scanner.ScanPairs(ctx, c.config.Pairs, func(done, total int) {
		c.sink.ScanProgress(done, total, nextScanIn)
	})

	var threshold decimal.Decimal
	_ = c.do(func() { threshold = c.settings.MinProfitThreshold() })

	detected := DetectOpportunities(observations, threshold)

	c.post(func() {
		c.stats.RecordScan()
		c.metrics.scans.Add(c.runCtx, 1)
		c.markAgent(domain.AgentScanner, domain.AgentIdle)
		c.ingest(detected)
		c.sink.StatsUpdated(c.stats.Snapshot())
	})
}

// ingest registers freshly detected opportunities and schedules their
// risk assessment. Runs on the command loop.
func (c *Controller) ingest(detected []*domain.Opportunity) {
	if len(detected) == 0 {
		return
	}
	c.stats.RecordDetected(len(detected))
	c.metrics.detected.Add(c.runCtx, int64(len(detected)))

	for _, opp := range detected {
		c.insert(opp)
		c.sink.OpportunityDetected(opp.Clone())
		c.activity(domain.AgentScanner, "opportunity_detected",
			fmt.Sprintf("%s spread %s%%", opp.Pair.String(), asPercent(opp.PotentialProfit)),
			domain.SeverityInfo)

		// detected -> assessing happens before evaluation runs
		c.transition(opp, domain.StatusAssessing)

		id := opp.ID
		time.AfterFunc(c.config.AssessmentDelay, func() {
			c.post(func() { c.assess(id) })
		})
	}
}

func (c *Controller) insert(opp *domain.Opportunity) {
	c.byID[opp.ID] = opp
	c.opportunities = append([]*domain.Opportunity{opp}, c.opportunities...)
	if len(c.opportunities) > maxOpportunities {
		evicted := c.opportunities[maxOpportunities:]
		c.opportunities = c.opportunities[:maxOpportunities]
		for _, old := range evicted {
			if old.Status.IsTerminal() {
				delete(c.byID, old.ID)
			}
		}
	}
}

// assess runs risk evaluation for one opportunity on the command loop.
func (c *Controller) assess(id string) {
	opp, ok := c.byID[id]
	if !ok || opp.Status != domain.StatusAssessing {
		return
	}
	c.markAgent(domain.AgentRisk, domain.AgentActive)
	defer c.markAgent(domain.AgentRisk, domain.AgentIdle)

	evaluator, err := NewEvaluator(EvaluatorConfig{
		GasUnits:            c.config.GasUnits,
		GasPrice:            c.config.GasPrice,
		NativeTokenPriceUSD: c.config.NativeTokenPriceUSD,
		MaxSlippage:         c.settings.MaxSlippage,
		MinProfitThreshold:  c.settings.MinProfitThreshold(),
		Thresholds:          c.config.Thresholds,
	})
	if err == nil {
		opp.Assessment, err = evaluator.Evaluate(opp, c.settings.TradeAmountUSD)
	}
	if err != nil {
		c.logger.Error(c.runCtx, "risk evaluation failed", "id", id, "error", err)
		c.transition(opp, domain.StatusRejected)
		c.activity(domain.AgentRisk, "assessment_error", err.Error(), domain.SeverityError)
		return
	}

	if !opp.Assessment.Approved {
		c.transition(opp, domain.StatusRejected)
		c.activity(domain.AgentRisk, "opportunity_rejected", opp.Assessment.Reason, domain.SeverityWarning)
		return
	}

	c.stats.RecordApproved()
	c.transition(opp, domain.StatusApproved)
	c.activity(domain.AgentRisk, "opportunity_approved", opp.Assessment.Reason, domain.SeveritySuccess)
	c.sink.StatsUpdated(c.stats.Snapshot())

	if c.settings.RequireApproval {
		c.transition(opp, domain.StatusPendingApproval)
		c.sink.ApprovalRequired(opp.Clone())
		c.activity(domain.AgentRisk, "awaiting_approval",
			fmt.Sprintf("Opportunity %s awaiting operator decision", shortID(id)),
			domain.SeverityInfo)
		if timeout := c.settings.ApprovalTimeout; timeout > 0 {
			time.AfterFunc(timeout, func() {
				c.post(func() { c.expireApproval(id) })
			})
		}
		return
	}

	time.AfterFunc(c.config.ExecutionDelay, func() {
		c.post(func() {
			if opp, ok := c.byID[id]; ok && opp.Status == domain.StatusApproved {
				c.startExecution(opp)
			}
		})
	})
}

// expireApproval auto-rejects an opportunity whose approval window
// lapsed. A human decision that already happened wins: the status
// check makes expiry a no-op then.
func (c *Controller) expireApproval(id string) {
	opp, ok := c.byID[id]
	if !ok || opp.Status != domain.StatusPendingApproval {
		return
	}
	c.transition(opp, domain.StatusRejected)
	c.activity(domain.AgentRisk, "approval_expired",
		fmt.Sprintf("Opportunity %s auto-rejected after approval timeout", shortID(id)),
		domain.SeverityWarning)
}

// startExecution moves an opportunity into executing and launches the
// execution goroutine. Runs on the command loop. The goroutine uses
// the controller's run context, not the scan context, so Stop never
// aborts an execution mid-flight.
func (c *Controller) startExecution(opp *domain.Opportunity) {
	c.transition(opp, domain.StatusExecuting)
	c.stats.RecordExecutionAttempt()
	c.metrics.executions.Add(c.runCtx, 1)
	c.markAgent(domain.AgentExecutor, domain.AgentActive)
	c.sink.StatsUpdated(c.stats.Snapshot())

	params, err := BuildTradeParams(opp, c.settings.TradeAmountUSD, c.settings.MaxSlippage, time.Now())
	if err != nil {
		c.applyResult(opp.ID, executionDomain.Failure(err.Error(), "", true))
		return
	}

	expectedProfit := opp.Assessment.NetProfit
	id := opp.ID
	c.activity(domain.AgentExecutor, "execution_started",
		fmt.Sprintf("Executing %s for %s %s", shortID(id), params.AmountIn, params.FromToken.Symbol()),
		domain.SeverityInfo)

	go func() {
		result := c.executor.Execute(c.runCtx, params, expectedProfit)
		c.post(func() { c.applyResult(id, result) })
	}()
}

// applyResult finishes an execution. Runs on the command loop.
func (c *Controller) applyResult(id string, result *executionDomain.ExecutionResult) {
	c.markAgent(domain.AgentExecutor, domain.AgentIdle)

	opp, ok := c.byID[id]
	if !ok || opp.Status != domain.StatusExecuting {
		c.logger.Warn(c.runCtx, "execution result for unknown or settled opportunity", "id", id)
		return
	}

	if result.Success {
		c.transition(opp, domain.StatusCompleted)
		profit := decimal.Zero
		if result.ActualProfit != nil {
			profit = *result.ActualProfit
		}
		c.stats.RecordExecutionSuccess(profit)
		pf, _ := profit.Float64()
		c.metrics.profitUSD.Add(c.runCtx, pf)
		c.activity(domain.AgentExecutor, "execution_completed",
			fmt.Sprintf("Tx %s, profit $%s", result.TxHash, profit.StringFixed(2)),
			domain.SeveritySuccess)
	} else {
		c.transition(opp, domain.StatusFailed)
		c.activity(domain.AgentExecutor, "execution_failed", result.Error, domain.SeverityError)
	}
	c.sink.StatsUpdated(c.stats.Snapshot())
}

// transition applies a forward-only status change and emits the
// update. Illegal transitions are programming errors; they are logged
// and ignored rather than crashing the pipeline.
func (c *Controller) transition(opp *domain.Opportunity, next domain.Status) {
	if !opp.Status.CanTransitionTo(next) {
		c.logger.Error(c.runCtx, "illegal lifecycle transition",
			"id", opp.ID, "from", opp.Status, "to", next)
		return
	}
	opp.Status = next
	c.sink.OpportunityUpdated(opp.Clone())
}

func (c *Controller) markAgent(name string, state domain.AgentState) {
	agent, ok := c.agents[name]
	if !ok {
		return
	}
	agent.State = state
	agent.LastActivity = time.Now()
	if state == domain.AgentActive {
		agent.TasksProcessed++
	}
	c.sink.AgentStatus(*agent)
}

func (c *Controller) activity(agent, action, detail string, severity domain.Severity) {
	c.sink.Activity(domain.ActivityRecord{
		Agent:     agent,
		Action:    action,
		Detail:    detail,
		Severity:  severity,
		Timestamp: time.Now(),
	})
}

func (c *Controller) settingsView() SettingsView {
	tradeAmount, _ := c.settings.TradeAmountUSD.Float64()
	minProfit, _ := c.settings.MinProfitUSD.Float64()
	maxSlippagePct, _ := c.settings.MaxSlippage.Mul(decimal.NewFromInt(100)).Float64()
	return SettingsView{
		ScanIntervalSec: int(c.settings.ScanInterval / time.Second),
		TradeAmountUSD:  tradeAmount,
		MinProfitUSD:    minProfit,
		MaxSlippagePct:  maxSlippagePct,
		RequireApproval: c.settings.RequireApproval,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
