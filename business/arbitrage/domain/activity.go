package domain

import "time"

// Severity tags an activity record for display and filtering.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Agent names used in activity and status records.
const (
	AgentScanner  = "scanner"
	AgentRisk     = "risk"
	AgentExecutor = "executor"
)

// ActivityRecord describes one observable pipeline event. Every
// lifecycle transition produces exactly one record.
type ActivityRecord struct {
	Agent     string    `json:"agent"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// AgentState is the coarse activity state of a pipeline agent.
type AgentState string

const (
	AgentActive AgentState = "active"
	AgentIdle   AgentState = "idle"
)

// AgentStatus tracks per-agent liveness for dashboards.
type AgentStatus struct {
	Name           string     `json:"name"`
	State          AgentState `json:"state"`
	LastActivity   time.Time  `json:"lastActivity"`
	TasksProcessed int64      `json:"tasksProcessed"`
}
