package turn

import (
	"reflect"
	"strings"
	"testing"

	"samsara/internal/game"
)

func testState() *game.State {
	return &game.State{
		Name:              "Aria",
		Health:            80,
		Karma:             10,
		Inventory:         []string{"rope", "lantern"},
		Turn:              3,
		ChosenSetting:     "a quiet hamlet",
		LastPlayerMessage: "open the door",
		TurnSummary:       "Turn 1: arrived\nTurn 2: rested\nTurn 3: walked",
	}
}

func TestParseWellFormed(t *testing.T) {
	raw := `Some preamble the model added.
START_LLM_GENERATED_CONTENT:
***health: 65
***inventory: rope, lantern, iron key
***karma: -4
***gamemaster_message: The door creaks open onto darkness.
***image_prompt: A heavy door opening into a dark corridor
***turn_summary: Turn 4: opened the door
END_LLM_GENERATED_CONTENT
trailing noise`

	result := Parse(raw, testState())

	if result.Health != 65 {
		t.Errorf("Health = %d, want 65", result.Health)
	}
	if result.Karma != -4 {
		t.Errorf("Karma = %d, want -4", result.Karma)
	}
	wantInv := []string{"rope", "lantern", "iron key"}
	if !reflect.DeepEqual(result.Inventory, wantInv) {
		t.Errorf("Inventory = %v, want %v", result.Inventory, wantInv)
	}
	if result.GamemasterMessage != "The door creaks open onto darkness." {
		t.Errorf("GamemasterMessage = %q", result.GamemasterMessage)
	}
	if result.ImagePrompt != "A heavy door opening into a dark corridor" {
		t.Errorf("ImagePrompt = %q", result.ImagePrompt)
	}
	if result.TurnSummary != "Turn 4: opened the door" {
		t.Errorf("TurnSummary = %q", result.TurnSummary)
	}
}

func TestParseClampsNumericFields(t *testing.T) {
	tests := []struct {
		name       string
		health     string
		karma      string
		wantHealth int
		wantKarma  int
	}{
		{"health above max", "150", "0", 100, 0},
		{"karma above max", "50", "140", 50, 100},
		{"karma below min", "50", "-140", 50, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "START_LLM_GENERATED_CONTENT:\n" +
				"***health: " + tt.health + "\n" +
				"***karma: " + tt.karma + "\n" +
				"END_LLM_GENERATED_CONTENT"

			result := Parse(raw, testState())
			if result.Health != tt.wantHealth {
				t.Errorf("Health = %d, want %d", result.Health, tt.wantHealth)
			}
			if result.Karma != tt.wantKarma {
				t.Errorf("Karma = %d, want %d", result.Karma, tt.wantKarma)
			}
		})
	}
}

func TestParseMissingFieldsFallBackPerField(t *testing.T) {
	raw := `START_LLM_GENERATED_CONTENT:
***gamemaster_message: Only a message made it through.
END_LLM_GENERATED_CONTENT`

	state := testState()
	result := Parse(raw, state)

	if result.Health != state.Health {
		t.Errorf("Health = %d, want current %d", result.Health, state.Health)
	}
	if result.Karma != state.Karma {
		t.Errorf("Karma = %d, want current %d", result.Karma, state.Karma)
	}
	if !reflect.DeepEqual(result.Inventory, state.Inventory) {
		t.Errorf("Inventory = %v, want current %v", result.Inventory, state.Inventory)
	}
	if result.GamemasterMessage != "Only a message made it through." {
		t.Errorf("GamemasterMessage = %q", result.GamemasterMessage)
	}
	if result.ImagePrompt != "A mysterious scene" {
		t.Errorf("ImagePrompt = %q, want default", result.ImagePrompt)
	}
	if result.TurnSummary != state.TurnSummary {
		t.Errorf("TurnSummary = %q, want carried-over summary", result.TurnSummary)
	}
}

func TestParseNumericOverflowRevertsTogether(t *testing.T) {
	// A health value too large for Atoi trips the all-numeric rollback:
	// health, karma, and inventory all revert even though karma and
	// inventory parsed fine on their own.
	raw := `START_LLM_GENERATED_CONTENT:
***health: 99999999999999999999999999
***inventory: brand new sword
***karma: 5
***gamemaster_message: Something happened.
END_LLM_GENERATED_CONTENT`

	state := testState()
	result := Parse(raw, state)

	if result.Health != state.Health {
		t.Errorf("Health = %d, want reverted %d", result.Health, state.Health)
	}
	if result.Karma != state.Karma {
		t.Errorf("Karma = %d, want reverted %d", result.Karma, state.Karma)
	}
	if !reflect.DeepEqual(result.Inventory, state.Inventory) {
		t.Errorf("Inventory = %v, want reverted %v", result.Inventory, state.Inventory)
	}
	if result.GamemasterMessage != "Something happened." {
		t.Errorf("GamemasterMessage = %q, text fields should survive the rollback", result.GamemasterMessage)
	}
}

func TestParseNoMarkersKeepsRawText(t *testing.T) {
	raw := "The cave swallows your torchlight as you step inside."

	state := testState()
	result := Parse(raw, state)

	if result.GamemasterMessage != raw {
		t.Errorf("GamemasterMessage = %q, want raw text preserved", result.GamemasterMessage)
	}
	if result.Health != state.Health || result.Karma != state.Karma {
		t.Errorf("state values changed: health %d karma %d", result.Health, result.Karma)
	}
	wantSummary := state.TurnSummary + "\nTurn 4: open the door"
	if result.TurnSummary != wantSummary {
		t.Errorf("TurnSummary = %q, want %q", result.TurnSummary, wantSummary)
	}
}

func TestParseEmptyResponse(t *testing.T) {
	state := testState()
	result := Parse("", state)

	if !strings.Contains(result.GamemasterMessage, "I apologize") {
		t.Errorf("GamemasterMessage = %q, want apology", result.GamemasterMessage)
	}
	if result.Health != state.Health || result.Karma != state.Karma {
		t.Errorf("state values changed: health %d karma %d", result.Health, result.Karma)
	}
	if result.TurnSummary != state.TurnSummary {
		t.Errorf("TurnSummary = %q, want unchanged", result.TurnSummary)
	}
}

func TestCleanInventory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain list", "rope, lantern, key", []string{"rope", "lantern", "key"}},
		{"bracketed and quoted", `['sword', "shield"]`, []string{"sword", "shield"}},
		{"case sensitive dedup", "rope, Rope, rope", []string{"rope", "Rope"}},
		{"empty tokens dropped", "rope,, ,lantern", []string{"rope", "lantern"}},
		{"empty string", "", []string{}},
		{"backslashes stripped", `rusty\ sword`, []string{"rusty sword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanInventory(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CleanInventory(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
