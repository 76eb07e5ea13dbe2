// Package ui provides the Bubble Tea dashboard for the agent pipeline.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the dashboard.
type Model struct {
	// Components
	opportunities *components.OpportunitiesComponent
	activity      *components.ActivityComponent
	stats         *components.StatsComponent
	agents        *components.AgentsComponent

	keys KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready    bool
	quitting bool
	running  bool
	width    int
	height   int

	scanDone   int
	scanTotal  int
	nextScanIn time.Duration
	lastUpdate time.Time

	errors []ErrorEntry // Persistent error panel (last 3)
}

// New creates a new TUI model.
func New() Model {
	return Model{
		opportunities: components.NewOpportunitiesComponent(50),
		activity:      components.NewActivityComponent(8),
		stats:         components.NewStatsComponent(),
		agents:        components.NewAgentsComponent(),
		keys:          DefaultKeyMap(),
		phase:         PhaseWelcome,
		welcomeStart:  time.Now(),
		errors:        make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			return m, tickCmd()
		}
		switch msg.String() {
		case "s":
			if m.running {
				if OnStop != nil {
					go OnStop()
				}
			} else if OnStart != nil {
				go OnStart()
			}
			return m, nil
		case "a":
			if id := m.opportunities.FirstPending(); id != "" && OnApprove != nil {
				go OnApprove(id)
			}
			return m, nil
		case "r":
			if id := m.opportunities.FirstPending(); id != "" && OnReject != nil {
				go OnReject(id)
			}
			return m, nil
		case "c":
			m.activity.Clear()
			return m, nil
		case "up", "k":
			m.opportunities.ScrollUp()
			return m, nil
		case "down", "j":
			m.opportunities.ScrollDown()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
		}
		return m, tickCmd()

	case RunningMsg:
		m.running = msg.Running
		m.lastUpdate = time.Now()

	case OpportunityMsg:
		if opp := msg.Opportunity; opp != nil {
			m.opportunities.Add(components.OpportunityRow{
				ID:     opp.ID,
				Time:   opp.Timestamp.Format("15:04:05"),
				Pair:   opp.Pair.String(),
				Spread: opp.PotentialProfit,
				Status: string(opp.Status),
			})
			m.lastUpdate = time.Now()
		}

	case OpportunityUpdateMsg:
		if opp := msg.Opportunity; opp != nil {
			m.opportunities.SetStatus(opp.ID, string(opp.Status))
			if opp.Assessment != nil {
				m.opportunities.SetAssessment(opp.ID,
					string(opp.Assessment.RiskLevel), opp.Assessment.NetProfit)
			}
			m.lastUpdate = time.Now()
		}

	case StatsMsg:
		m.stats.Update(components.Stats{
			TotalScans:     msg.Stats.TotalScans,
			Detected:       msg.Stats.OpportunitiesDetected,
			Approved:       msg.Stats.OpportunitiesApproved,
			Attempted:      msg.Stats.ExecutionsAttempted,
			Successful:     msg.Stats.ExecutionsSuccessful,
			TotalProfitUSD: msg.Stats.TotalProfit.InexactFloat64(),
			SuccessRate:    msg.Stats.SuccessRate.InexactFloat64(),
			UptimeSeconds:  msg.Stats.UptimeSeconds,
		})
		m.lastUpdate = time.Now()

	case AgentStatusMsg:
		m.agents.Update(components.AgentStatus{
			Name:           msg.Status.Name,
			Active:         msg.Status.State == domain.AgentActive,
			LastActivity:   msg.Status.LastActivity,
			TasksProcessed: msg.Status.TasksProcessed,
		})
		m.lastUpdate = time.Now()

	case ScanProgressMsg:
		m.scanDone = msg.Done
		m.scanTotal = msg.Total
		m.nextScanIn = msg.NextScanIn
		m.lastUpdate = time.Now()

	case ActivityMsg:
		m.activity.Add(components.ActivityEntry{
			Time:     msg.Record.Timestamp.Format("15:04:05"),
			Agent:    msg.Record.Agent,
			Detail:   msg.Record.Detail,
			Severity: string(msg.Record.Severity),
		})
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" 🤖 DeFi Arbitrage Agents ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Left column: stats + agents. Right column: activity + opportunities.
	var leftContent strings.Builder
	leftContent.WriteString(m.stats.View())
	leftContent.WriteString("\n\n")
	leftContent.WriteString(m.agents.View())
	leftCol := leftContent.String()

	var rightContent strings.Builder
	rightContent.WriteString(m.activity.View())
	rightContent.WriteString("\n")
	rightContent.WriteString(m.opportunities.View())
	rightCol := rightContent.String()

	if m.width > 120 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • s: start/stop • a: approve • r: reject • c: clear • ↑↓: scroll"
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	sb.WriteString("\n\n\n\n")

	logo := `
    ██████╗ ███████╗███████╗██╗     █████╗  ██████╗ ███████╗███╗   ██╗████████╗███████╗
    ██╔══██╗██╔════╝██╔════╝██║    ██╔══██╗██╔════╝ ██╔════╝████╗  ██║╚══██╔══╝██╔════╝
    ██║  ██║█████╗  █████╗  ██║    ███████║██║  ███╗█████╗  ██╔██╗ ██║   ██║   ███████╗
    ██║  ██║██╔══╝  ██╔══╝  ██║    ██╔══██║██║   ██║██╔══╝  ██║╚██╗██║   ██║   ╚════██║
    ██████╔╝███████╗██║     ██║    ██║  ██║╚██████╔╝███████╗██║ ╚████║   ██║   ███████║
    ╚═════╝ ╚══════╝╚═╝     ╚═╝    ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝   ╚═╝   ╚══════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	subtitle := "            M U L T I - A G E N T   A R B I T R A G E   P I P E L I N E"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.running {
		parts = append(parts, StatusRunning.Render("● RUNNING"))
	} else {
		parts = append(parts, StatusStopped.Render("○ STOPPED"))
	}

	if m.scanTotal > 0 {
		if m.scanDone < m.scanTotal {
			spinners := []string{"⟳", "◐", "◓", "◑", "◒"}
			idx := int(time.Now().UnixMilli()/100) % len(spinners)
			scanningStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
			parts = append(parts, scanningStyle.Render(
				fmt.Sprintf("%s Scanning %d/%d", spinners[idx], m.scanDone, m.scanTotal)))
		} else {
			parts = append(parts, fmt.Sprintf("Next scan in %s", m.nextScanIn.Round(time.Second)))
		}
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪"
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Callbacks wired by main to drive the pipeline from keypresses. They
// run on their own goroutines, never on the update loop.
var (
	OnStart   func()
	OnStop    func()
	OnApprove func(id string)
	OnReject  func(id string)
)

// Run starts the Bubble Tea program and blocks until it exits.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
