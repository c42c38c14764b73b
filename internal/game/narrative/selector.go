package narrative

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"samsara/internal/debug"
	"samsara/internal/game"
)

// ElementType is a story-beat category chosen from the player's last action.
type ElementType string

const (
	Dialogue    ElementType = "DIALOGUE"
	Action      ElementType = "ACTION"
	Exploration ElementType = "EXPLORATION"
	Item        ElementType = "ITEM"
)

var allTypes = []ElementType{Dialogue, Action, Exploration, Item}

// Verb keywords that bind a player action to a story-beat category. First
// matching category wins; no match falls back to a uniform random pick.
var typeKeywords = map[ElementType][]string{
	Dialogue:    {"say", "talk", "ask", "tell", "speak", "shout", "whisper", "greet", "answer", "reply"},
	Action:      {"attack", "fight", "run", "jump", "climb", "swim", "throw", "grab", "push", "pull", "strike", "dodge"},
	Exploration: {"look", "explore", "search", "investigate", "examine", "walk", "go", "enter", "follow", "approach", "travel"},
	Item:        {"use", "take", "pick", "drop", "open", "eat", "drink", "wear", "equip", "craft", "give", "trade"},
}

// Element is an in-fiction text fragment injected verbatim into the next
// turn prompt. Content is opaque beyond trimming.
type Element struct {
	Type    ElementType
	Content string
}

// Selector chooses a story-beat category for each turn and asks the model
// for a short fragment of that category.
type Selector struct {
	llm   game.Completer
	rng   *rand.Rand
	debug *debug.Logger
}

func NewSelector(llm game.Completer, rng *rand.Rand, debugLogger *debug.Logger) *Selector {
	return &Selector{llm: llm, rng: rng, debug: debugLogger}
}

// ClassifyAction maps an action onto an element type by keyword match, or a
// uniform random type when nothing matches.
func (s *Selector) ClassifyAction(action string) ElementType {
	lower := strings.ToLower(action)
	for _, t := range allTypes {
		for _, keyword := range typeKeywords[t] {
			if strings.Contains(lower, keyword) {
				return t
			}
		}
	}
	return allTypes[s.rng.Intn(len(allTypes))]
}

// Select produces the turn's narrative element. An LLM failure yields an
// empty element; the orchestrator simply omits it from the turn prompt.
func (s *Selector) Select(ctx context.Context, state *game.State) Element {
	elementType := s.ClassifyAction(state.LastPlayerMessage)

	inventory := "empty"
	if len(state.Inventory) > 0 {
		inventory = strings.Join(state.Inventory, ", ")
	}

	prompt := fmt.Sprintf(`You are a narrative designer for a text-based RPG. Based on the current context, generate a %s element.

Current context:
Last gamemaster message: %s
Player's last action: %s
Current inventory: %s
Current location/situation: %s

%s

Return only the narrative element, nothing else. Be concise but compelling.`,
		elementType,
		state.LastGamemasterMessage,
		state.LastPlayerMessage,
		inventory,
		state.ChosenSetting,
		typeInstructions[elementType])

	content, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.debug.Printf("narrative element generation failed: %v", err)
		return Element{Type: elementType}
	}

	return Element{Type: elementType, Content: strings.TrimSpace(content)}
}

var typeInstructions = map[ElementType]string{
	Dialogue:    `Introduce a character with a single line of spoken dialogue. Format: '[Character description]: "[intriguing dialogue]"'`,
	Action:      "Create a sudden action that demands player response, then list two or three possible next steps. Format: 'Suddenly, [unexpected event]. You could: [options]'",
	Exploration: "Reveal a detail of the surroundings that invites investigation. Format: 'You notice [evocative environmental detail]'",
	Item:        "Bring an object into play, either from the inventory or found nearby. Format: '[Object] [catches your attention / reacts / changes]'",
}
