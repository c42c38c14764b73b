package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"samsara/internal/game/turn"
	"samsara/internal/image"
)

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// startSession runs the session bootstrap (setting pick, opening situation,
// starting items) off the UI loop.
func startSession(orchestrator *turn.Orchestrator, name string) tea.Cmd {
	return func() tea.Msg {
		outcome := orchestrator.StartSession(context.Background(), name)
		return sessionStartedMsg{outcome: outcome}
	}
}

// processTurn runs the whole synchronous turn pipeline in one command; the
// individual LLM calls never overlap within a turn.
func processTurn(orchestrator *turn.Orchestrator, action string) tea.Cmd {
	return func() tea.Msg {
		outcome := orchestrator.ProcessTurn(context.Background(), action)
		return turnProcessedMsg{outcome: outcome}
	}
}

// generateImage dispatches an illustration request onto its own command so
// turn processing never waits on image I/O. Completion comes back as a
// message; the Update loop's imageLoading flag prevents a second concurrent
// request.
func generateImage(generator *image.Generator, prompt string) tea.Cmd {
	return func() tea.Msg {
		path, err := generator.Generate(context.Background(), prompt)
		return imageReadyMsg{path: path, err: err}
	}
}
