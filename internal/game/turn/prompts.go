package turn

import (
	"fmt"
	"strings"

	"samsara/internal/game"
	"samsara/internal/game/hazard"
	"samsara/internal/game/narrative"
)

// buildTurnPrompt assembles the composite prompt for the turn's main
// narrative response. The response-format section is the wire contract that
// parser.go consumes; prompt wording may drift but the ***field lines and
// markers must not.
func buildTurnPrompt(state *game.State, element narrative.Element, event *hazard.Event) string {
	inventory := "empty"
	if len(state.Inventory) > 0 {
		inventory = strings.Join(state.Inventory, ", ")
	}

	var turbulence, turbulenceInstruction string
	if event != nil {
		turbulence = fmt.Sprintf("\nSUDDEN EVENT: %s\n", event.Description)
		if event.Lethal {
			turbulenceInstruction = "IMPORTANT: This event is lethal. You MUST end this turn with the player's death (set health to 0) and describe their demise in a narratively satisfying way."
		} else {
			turbulenceInstruction = "IMPORTANT: A sudden event has occurred! Incorporate this event into your response with appropriate consequences and challenges."
		}
	}

	return fmt.Sprintf(`You are a skilled dungeon master for a text-based RPG. Your job is to create an engaging and dynamic story that responds to player choices while maintaining appropriate challenge and consequences.

NARRATIVE ELEMENT: %s
ELEMENT TYPE: %s

IMPORTANT RULES:
1. Your response MUST incorporate and directly address the narrative element above
2. Keep the story moving forward - don't stay in one place or situation too long
3. Actions should have clear consequences for health and karma
4. Maintain narrative continuity with previous events
5. Be concise but descriptive
6. For inventory items, use simple comma-separated text (e.g., "rusty sword, health potion, map")

IMPORTANT: You must respond in the exact format specified below. Do not deviate from this format:

The player is named %s, they have %d/100 health and the following items in their inventory: %s. Their karma is %d (scale of -100 to 100) which will determine their luck and change based on their choices.
It is turn %d.

Here is context of the last turn:
Gamemaster: %s
Player: %s%s

Here is a summary of the player's turns so far: %s

%s

YOU MUST RESPOND IN THIS EXACT FORMAT:
%s
***health: [number between 0-100]
***inventory: [simple comma-separated list of items, no brackets or quotes]
***karma: [number between -100 and 100]
***gamemaster_message: [your response to the player's action]
***image_prompt: [brief scene description]
***turn_summary: [summary including this turn]
%s`,
		element.Content,
		element.Type,
		state.Name,
		state.Health,
		inventory,
		state.Karma,
		state.Turn,
		state.LastGamemasterMessage,
		state.LastPlayerMessage,
		turbulence,
		state.TurnSummary,
		turbulenceInstruction,
		StartMarker,
		EndMarker)
}
