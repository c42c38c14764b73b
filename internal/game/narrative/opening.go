package narrative

import (
	"context"
	"fmt"
	"strings"
)

// GenerateOpeningSituation writes the player-facing intro for a fresh life in
// the given setting. On failure it returns a serviceable generic opening so a
// reincarnation never stalls.
func (s *Selector) GenerateOpeningSituation(ctx context.Context, setting string) string {
	prompt := fmt.Sprintf(`You are a dungeon master for a text based RPG. You are given a setting and you need to generate a new situation for the player.
The player has just reincarnated into a new life and wakes up with no memories in the following setting: %s.
Give the player a brief intro based on the setting and a few directions that they might go with their new life. Be concise yet descriptive and ensure there are some unique choices which could lead to action.
Everything should be written in the second person. Please return only a player-facing message and nothing else.`, setting)

	situation, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.debug.Printf("opening situation generation failed: %v", err)
		return fmt.Sprintf("You awaken with no memories in %s. The world around you waits for your first move.", setting)
	}

	return strings.TrimSpace(situation)
}

// ExtractStartingItems pulls the items a new life begins with out of its
// opening situation text. Failures seed an empty inventory.
func (s *Selector) ExtractStartingItems(ctx context.Context, situation string) []string {
	prompt := fmt.Sprintf(`You are an inventory extractor for a text-based RPG. Read the following opening situation and list any items the player character starts with or could plausibly be carrying.

Situation:
%s

Return ONLY a simple comma-separated list of item names (e.g. "rusty sword, waterskin, map"), or the single word NONE if the player starts with nothing. No brackets, no quotes, nothing else.`, situation)

	response, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.debug.Printf("starting item extraction failed: %v", err)
		return []string{}
	}

	response = strings.TrimSpace(response)
	if response == "" || strings.EqualFold(response, "NONE") {
		return []string{}
	}

	var items []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(response, ",") {
		item := strings.TrimSpace(token)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}

	return items
}
