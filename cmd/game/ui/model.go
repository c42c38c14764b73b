package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"samsara/internal/debug"
	"samsara/internal/game"
	"samsara/internal/game/turn"
	"samsara/internal/image"
	"samsara/internal/logging"
)

// Phase is the orchestrator-facing input state machine: a session starts by
// asking for a name, then alternates between accepting an action and
// processing it.
type Phase int

const (
	AwaitingName Phase = iota
	AwaitingAction
	ProcessingTurn
)

type GameLoggers struct {
	Debug      *debug.Logger
	Completion *logging.CompletionLogger
}

type Model struct {
	orchestrator *turn.Orchestrator
	images       *image.Generator
	loggers      GameLoggers

	phase          Phase
	history        *game.History
	snapshot       game.Snapshot
	input          string
	width          int
	height         int
	animationFrame int

	imageLoading bool
	imagePath    string
}

func NewModel(orchestrator *turn.Orchestrator, images *image.Generator, loggers GameLoggers) Model {
	history := game.NewHistory(200)
	history.AddSystem("Welcome to Samsara.")
	history.AddSystem("Each life is shaped by the karma of the last. Enter your name to begin your first one.")

	return Model{
		orchestrator: orchestrator,
		images:       images,
		loggers:      loggers,
		phase:        AwaitingName,
		history:      history,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Cleanup() {
	if m.loggers.Completion != nil {
		m.loggers.Completion.Close()
	}
}

type animationTickMsg struct{}

type sessionStartedMsg struct {
	outcome turn.Outcome
}

type turnProcessedMsg struct {
	outcome turn.Outcome
}

type imageReadyMsg struct {
	path string
	err  error
}
