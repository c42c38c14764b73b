package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"samsara/internal/game"
)

func (m Model) View() string {
	statusHeight := 1
	inputHeight := 3
	chatHeight := m.height - inputHeight - statusHeight

	systemStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	playerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	gamemasterStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	loadingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6"))

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	chatPanel := lipgloss.NewStyle().
		Width(m.width).
		Height(chatHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	var chatContent strings.Builder

	lines := m.history.Messages()
	if m.phase == ProcessingTurn {
		lines = append(lines, game.Message{Kind: game.SystemMessage, Text: "LOADING_ANIMATION"})
	}

	maxMessages := chatHeight - 2
	if maxMessages < 1 {
		maxMessages = 1
	}

	if len(lines) > maxMessages {
		lines = lines[len(lines)-maxMessages:]
	}

	paddingLines := maxMessages - len(lines)
	for i := 0; i < paddingLines; i++ {
		chatContent.WriteString("\n")
	}

	contentWidth := m.width - 4

	for _, message := range lines {
		if message.Text == "LOADING_ANIMATION" {
			animationText := getLoadingAnimation(m.animationFrame)
			chatContent.WriteString(loadingStyle.Render(wrapAndIndent(animationText, contentWidth, " ")) + "\n")
			continue
		}

		wrappedText := wrapAndIndent(message.Text, contentWidth, " ")
		switch message.Kind {
		case game.PlayerMessage:
			chatContent.WriteString(playerStyle.Render(wrappedText) + "\n")
		case game.GamemasterMessage:
			chatContent.WriteString(gamemasterStyle.Render(wrappedText) + "\n")
		default:
			chatContent.WriteString(systemStyle.Render(wrappedText) + "\n")
		}
	}

	status := statusStyle.Render(m.statusLine())
	chat := chatPanel.Render(chatContent.String())
	input := inputStyle.Render(m.input + "│")

	return status + "\n" + chat + "\n" + input
}

func (m Model) statusLine() string {
	if m.phase == AwaitingName {
		return " Enter your name to begin"
	}

	inventory := "empty"
	if len(m.snapshot.Inventory) > 0 {
		inventory = strings.Join(m.snapshot.Inventory, ", ")
	}

	line := fmt.Sprintf(" Health: %d/100 │ Karma: %+d │ Turn: %d │ Inventory: %s",
		m.snapshot.Health, m.snapshot.Karma, m.snapshot.Turn, inventory)
	if m.imageLoading {
		line += " │ ◌ generating image"
	}
	return line
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
