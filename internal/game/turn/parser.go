package turn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"samsara/internal/game"
)

// Literal markers delimiting the structured block in model output. The
// prompt in prompts.go mandates this exact shape; producer and parser must
// stay in lock-step.
const (
	StartMarker = "START_LLM_GENERATED_CONTENT:"
	EndMarker   = "END_LLM_GENERATED_CONTENT"
)

// Result is the candidate full-state update extracted from one model
// response.
type Result struct {
	Health            int
	Inventory         []string
	Karma             int
	GamemasterMessage string
	ImagePrompt       string
	TurnSummary       string
}

var (
	blockPattern = regexp.MustCompile(`(?s)START_LLM_GENERATED_CONTENT:(.*?)END_LLM_GENERATED_CONTENT`)

	// Free-text fields capture a single line only; embedded newlines are not
	// carried across.
	fieldPatterns = map[string]*regexp.Regexp{
		"health":             regexp.MustCompile(`\*\*\*health:\s*(\d+)`),
		"inventory":          regexp.MustCompile(`\*\*\*inventory:[ \t]*(.*)`),
		"karma":              regexp.MustCompile(`\*\*\*karma:\s*(-?\d+)`),
		"gamemaster_message": regexp.MustCompile(`\*\*\*gamemaster_message:[ \t]*(.*)`),
		"image_prompt":       regexp.MustCompile(`\*\*\*image_prompt:[ \t]*(.*)`),
		"turn_summary":       regexp.MustCompile(`\*\*\*turn_summary:[ \t]*(.*)`),
	}

	inventoryJunk = regexp.MustCompile(`[\[\]'"\\]+`)
)

// Parse extracts a structured turn result from free-form model text. It is
// total: malformed input, missing fields, and even internal panics all
// resolve to usable results derived from the current state.
func Parse(raw string, state *game.State) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = defaultResult(state)
		}
	}()

	blockMatch := blockPattern.FindStringSubmatch(raw)
	if blockMatch == nil {
		return malformedResult(raw, state)
	}

	fields := extractFields(blockMatch[1], state)
	return validate(fields, state)
}

// extractFields pulls each field out of the block independently; a field
// whose pattern fails falls back to its own current-state default without
// affecting the others.
func extractFields(content string, state *game.State) map[string]string {
	fields := make(map[string]string, len(fieldPatterns))
	for key, pattern := range fieldPatterns {
		match := pattern.FindStringSubmatch(content)
		if match == nil {
			fields[key] = defaultFieldValue(key, state)
		} else {
			fields[key] = strings.TrimSpace(match[1])
		}
	}
	return fields
}

// validate converts and bounds the numeric fields and cleans the inventory.
// A numeric parse failure on health or karma reverts health, karma, AND
// inventory together to the pre-turn state; individual pattern misses above
// stay per-field.
func validate(fields map[string]string, state *game.State) Result {
	result := Result{
		GamemasterMessage: fields["gamemaster_message"],
		ImagePrompt:       fields["image_prompt"],
		TurnSummary:       fields["turn_summary"],
	}

	health, healthErr := strconv.Atoi(fields["health"])
	karma, karmaErr := strconv.Atoi(fields["karma"])

	if healthErr != nil || karmaErr != nil {
		result.Health = state.Health
		result.Karma = state.Karma
		result.Inventory = copyInventory(state.Inventory)
		return result
	}

	result.Health = max(0, min(100, health))
	result.Karma = max(-100, min(100, karma))
	result.Inventory = CleanInventory(fields["inventory"])
	return result
}

// CleanInventory normalizes the raw inventory field: bracket, quote, and
// backslash characters stripped, comma-split, empty and bracket-only tokens
// dropped, first-seen order preserved with case-sensitive dedup.
func CleanInventory(raw string) []string {
	cleaned := inventoryJunk.ReplaceAllString(raw, "")

	items := []string{}
	seen := make(map[string]bool)
	for _, token := range strings.Split(cleaned, ",") {
		item := strings.TrimSpace(token)
		if item == "" || strings.HasPrefix(item, "[") || strings.HasPrefix(item, "]") {
			continue
		}
		if seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}

	return items
}

func defaultFieldValue(key string, state *game.State) string {
	switch key {
	case "health":
		return strconv.Itoa(state.Health)
	case "inventory":
		return strings.Join(state.Inventory, ",")
	case "karma":
		return strconv.Itoa(state.Karma)
	case "gamemaster_message":
		return "I'm having trouble understanding what happened. Please try again."
	case "image_prompt":
		return "A mysterious scene"
	case "turn_summary":
		if state.TurnSummary != "" {
			return state.TurnSummary
		}
		return "The adventure begins..."
	}
	return ""
}

// malformedResult handles responses with no structured block at all. The raw
// text is preserved as the gamemaster message so narrative is never silently
// dropped, and a synthetic line keeps the turn summary moving.
func malformedResult(raw string, state *game.State) Result {
	result := defaultResult(state)
	if strings.TrimSpace(raw) != "" {
		result.GamemasterMessage = strings.TrimSpace(raw)
		result.TurnSummary = fmt.Sprintf("%s\nTurn %d: %s", state.TurnSummary, state.Turn+1, state.LastPlayerMessage)
	}
	return result
}

// defaultResult mirrors the current state with apology messaging; the
// last-resort outcome for unusable responses.
func defaultResult(state *game.State) Result {
	summary := state.TurnSummary
	if summary == "" {
		summary = "The adventure begins..."
	}

	return Result{
		Health:            state.Health,
		Inventory:         copyInventory(state.Inventory),
		Karma:             state.Karma,
		GamemasterMessage: "I apologize, but I'm having trouble processing what happened. Please try your action again.",
		ImagePrompt:       "A mysterious scene",
		TurnSummary:       summary,
	}
}

func copyInventory(inventory []string) []string {
	result := make([]string, len(inventory))
	copy(result, inventory)
	return result
}
