package hazard

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"samsara/internal/debug"
	"samsara/internal/game"
)

// Event is an unplanned danger injected into a turn, independent of the
// player's chosen action.
type Event struct {
	Description string
	Lethal      bool
}

// System decides whether turbulence strikes a turn and, if so, how deadly it
// is. Firing is pure RNG over the turn counter; lethality is an LLM verdict
// with the karma-derived probability supplied only as a hint.
type System struct {
	llm   game.Completer
	rng   *rand.Rand
	debug *debug.Logger
}

func NewSystem(llm game.Completer, rng *rand.Rand, debugLogger *debug.Logger) *System {
	return &System{llm: llm, rng: rng, debug: debugLogger}
}

// ShouldFire reports whether a hazard event fires this turn. The first two
// turns of a life are always safe; after that the odds climb with turn count.
func (s *System) ShouldFire(turn int) bool {
	if turn < 2 {
		return false
	}

	var chance float64
	switch {
	case turn <= 5:
		chance = 0.10
	case turn <= 10:
		chance = 0.20
	default:
		chance = 0.30
	}

	return s.rng.Float64() < chance
}

// LethalChance maps karma onto a lethality probability: 0.80 at karma -100
// down to 0.05 at karma +100. Good karma suppresses but never eliminates
// lethal risk.
func LethalChance(karma int) float64 {
	karmaFactor := float64(karma+100) / 200
	return 0.80 - karmaFactor*0.75
}

// Generate produces the turn's hazard event. The lethality verdict and the
// narration are separate LLM calls; if either fails the event degrades to a
// survivable generic danger rather than an error.
func (s *System) Generate(ctx context.Context, state *game.State) Event {
	lethal := s.determineLethality(ctx, state, LethalChance(state.Karma))
	description := s.describeEvent(ctx, state, lethal)

	return Event{Description: description, Lethal: lethal}
}

func (s *System) determineLethality(ctx context.Context, state *game.State, lethalChance float64) bool {
	inventory := "empty"
	if len(state.Inventory) > 0 {
		inventory = strings.Join(state.Inventory, ", ")
	}

	prompt := fmt.Sprintf(`You are a fate-determining AI for a text-based RPG. Based on the following context, determine if this turbulence event should be lethal.

Current game state:
- Player's karma: %d (-100 to 100)
- Current turn: %d
- Player's health: %d
- Current inventory: %s
- Last action: %s

Mathematical chance of lethality based on karma: %.1f%%

Additional factors to consider:
1. Player's recent actions and choices
2. Current story context
3. Dramatic timing
4. Current inventory items that might help survival

Should this turbulence event be lethal? Respond with only 'YES' or 'NO'.`,
		state.Karma, state.Turn, state.Health, inventory, state.LastPlayerMessage, lethalChance*100)

	response, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.debug.Printf("lethality verdict failed: %v", err)
		return false
	}

	// The model's verdict is the sole source of truth; the numeric chance
	// above is advisory only.
	return strings.ToUpper(strings.TrimSpace(response)) == "YES"
}

func (s *System) describeEvent(ctx context.Context, state *game.State, lethal bool) string {
	inventory := "empty"
	if len(state.Inventory) > 0 {
		inventory = strings.Join(state.Inventory, ", ")
	}

	lethalityInstruction := "This event should create significant danger but survival should be possible."
	if lethal {
		lethalityInstruction = "IMPORTANT: This event MUST result in the player's death this turn."
	}

	prompt := fmt.Sprintf(`You are a dungeon master creating a dynamic event in a text-based RPG. Generate a context-appropriate conflict or challenge based on the current situation.

Current context:
Last gamemaster message: %s
Player's last action: %s
Current inventory: %s
Current health: %d
Karma: %d

%s

Generate a single sentence describing a sudden event that creates conflict or danger. The event should:
1. Feel natural within the current context
2. Create immediate tension
3. Connect to the current story if possible
4. Not reveal if it's lethal or not in its description

Return only the event description, nothing else.`,
		state.LastGamemasterMessage, state.LastPlayerMessage, inventory, state.Health, state.Karma, lethalityInstruction)

	response, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.debug.Printf("hazard narration failed: %v", err)
		return "A sudden danger erupts from an unexpected direction."
	}

	return strings.TrimSpace(response)
}
