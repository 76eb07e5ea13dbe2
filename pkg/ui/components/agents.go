// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AgentStatus represents one pipeline agent's status.
type AgentStatus struct {
	Name           string
	Active         bool
	LastActivity   time.Time
	TasksProcessed int64
}

// AgentsComponent renders the agent status panel.
type AgentsComponent struct {
	agents []AgentStatus
}

// NewAgentsComponent creates a new agents component.
func NewAgentsComponent() *AgentsComponent {
	return &AgentsComponent{
		agents: make([]AgentStatus, 0),
	}
}

// Update updates an agent's status.
func (a *AgentsComponent) Update(status AgentStatus) {
	for i, agent := range a.agents {
		if agent.Name == status.Name {
			a.agents[i] = status
			return
		}
	}
	a.agents = append(a.agents, status)
}

// View renders the agents component.
func (a *AgentsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	result := headerStyle.Render("AGENTS") + "\n"

	if len(a.agents) == 0 {
		return result + "  Waiting for agents..."
	}

	for _, agent := range a.agents {
		status := "● active"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !agent.Active {
			status = "○ idle"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		}

		line := fmt.Sprintf("├─ %-8s %s  tasks: %d", agent.Name, style.Render(status), agent.TasksProcessed)
		if !agent.LastActivity.IsZero() {
			line += fmt.Sprintf("  (%s ago)", time.Since(agent.LastActivity).Round(time.Second))
		}
		result += line + "\n"
	}

	return result
}
