package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case animationTickMsg:
		return m.handleAnimation(msg)
	case sessionStartedMsg:
		return m.handleSessionStarted(msg)
	case turnProcessedMsg:
		return m.handleTurnProcessed(msg)
	case imageReadyMsg:
		return m.handleImageReady(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	return m, nil
}

func (m Model) handleAnimation(msg animationTickMsg) (tea.Model, tea.Cmd) {
	if m.phase == ProcessingTurn {
		m.animationFrame++
		return m, animationTimer()
	}
	return m, nil
}

func (m Model) handleSessionStarted(msg sessionStartedMsg) (tea.Model, tea.Cmd) {
	m.phase = AwaitingAction
	m.snapshot = msg.outcome.Snapshot

	if msg.outcome.Rebirth != nil {
		m.history.AddSystem("Your life begins in: " + msg.outcome.Rebirth.Setting)
	}
	m.history.AddGamemaster(msg.outcome.GamemasterMessage)

	cmd := m.requestImage(msg.outcome.ImagePrompt)
	return m, cmd
}

func (m Model) handleTurnProcessed(msg turnProcessedMsg) (tea.Model, tea.Cmd) {
	m.phase = AwaitingAction
	m.snapshot = msg.outcome.Snapshot

	outcome := msg.outcome

	if outcome.HazardEvent != "" {
		m.history.AddSystem("⚠ UNEXPECTED EVENT! ⚠")
	}

	m.history.AddGamemaster(outcome.GamemasterMessage)

	if m.loggers.Debug.IsEnabled() {
		if outcome.HealthNote != "" {
			m.history.AddSystem(fmt.Sprintf("[health %+d] %s", outcome.HealthDelta, outcome.HealthNote))
		}
		if outcome.KarmaNote != "" {
			m.history.AddSystem(fmt.Sprintf("[karma %+d] %s", outcome.KarmaDelta, outcome.KarmaNote))
		}
	}

	if len(outcome.ItemsGained) > 0 {
		m.history.AddSystem("Gained: " + strings.Join(outcome.ItemsGained, ", "))
	}
	if len(outcome.ItemsLost) > 0 {
		m.history.AddSystem("Lost: " + strings.Join(outcome.ItemsLost, ", "))
	}

	if outcome.Died {
		m.history.AddSystem("You have died! Reincarnating into a new life...")
		if outcome.Rebirth != nil {
			m.history.AddSystem("Your new life begins in: " + outcome.Rebirth.Setting)
			m.history.AddGamemaster(outcome.Rebirth.OpeningMessage)
		}
	}

	cmd := m.requestImage(outcome.ImagePrompt)
	return m, cmd
}

// requestImage starts a background illustration request unless one is
// already running or there is nothing to draw.
func (m *Model) requestImage(prompt string) tea.Cmd {
	if m.images == nil || m.imageLoading || strings.TrimSpace(prompt) == "" {
		return nil
	}

	m.imageLoading = true
	m.history.AddSystem("Generating scene image...")
	return generateImage(m.images, prompt)
}

func (m Model) handleImageReady(msg imageReadyMsg) (tea.Model, tea.Cmd) {
	m.imageLoading = false
	if msg.err != nil {
		m.loggers.Debug.Printf("image generation failed: %v", msg.err)
		m.history.AddSystem("Failed to generate scene image.")
	} else {
		m.imagePath = msg.path
		m.history.AddSystem("Scene image updated.")
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		input := strings.TrimSpace(m.input)
		if input == "" || m.phase == ProcessingTurn {
			return m, nil
		}
		m.input = ""

		switch m.phase {
		case AwaitingName:
			m.history.AddSystem("Welcome, " + input + ". Your story begins.")
			m.phase = ProcessingTurn
			m.animationFrame = 0
			return m, tea.Batch(startSession(m.orchestrator, input), animationTimer())

		case AwaitingAction:
			if m.loggers.Debug.IsEnabled() && strings.HasPrefix(input, "/") {
				return m.handleDebugCommand(input)
			}

			m.history.AddPlayer(input)
			m.phase = ProcessingTurn
			m.animationFrame = 0
			return m, tea.Batch(processTurn(m.orchestrator, input), animationTimer())
		}
		return m, nil

	case "backspace":
		if len(m.input) > 0 && m.phase != ProcessingTurn {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	default:
		if len(msg.String()) == 1 && m.phase != ProcessingTurn {
			m.input += msg.String()
		}
		return m, nil
	}
}

func (m Model) handleDebugCommand(input string) (tea.Model, tea.Cmd) {
	m.history.AddPlayer(input)
	switch strings.ToLower(input) {
	case "/state", "/debug":
		m.history.AddSystem("[DEBUG] Current Game State:")
		m.history.AddSystem(fmt.Sprintf("[DEBUG] Name: %s, Turn: %d", m.snapshot.Name, m.snapshot.Turn))
		m.history.AddSystem(fmt.Sprintf("[DEBUG] Health: %d, Karma: %d", m.snapshot.Health, m.snapshot.Karma))
		m.history.AddSystem(fmt.Sprintf("[DEBUG] Inventory: %v", m.snapshot.Inventory))
		m.history.AddSystem(fmt.Sprintf("[DEBUG] Image prompt: %s", m.snapshot.ImagePrompt))
	case "/help":
		m.history.AddSystem("[DEBUG] Available commands:")
		m.history.AddSystem("[DEBUG] /state - Show current game state")
		m.history.AddSystem("[DEBUG] /help - Show this help")
	default:
		m.history.AddSystem("[DEBUG] Unknown command. Try /help")
	}
	return m, nil
}
