package game

import "context"

// Completer is the single capability the game needs from an LLM backend.
// Production code uses llm.Service; tests substitute deterministic stubs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// State is the authoritative record of one play session. One "life" runs from
// 100 health down to death; karma and the player's name are the only fields
// that survive a life boundary.
type State struct {
	Name                  string
	Health                int
	Karma                 int
	Inventory             []string
	Turn                  int
	ChosenSetting         string
	LastGamemasterMessage string
	LastPlayerMessage     string
	TurnSummary           string
	ImagePrompt           string
}

func NewState(name string) *State {
	return &State{
		Name:      name,
		Health:    100,
		Karma:     0,
		Inventory: []string{},
	}
}

// BeginLife resets everything a reincarnation wipes: health, inventory, the
// turn counter, and all per-life narrative context. Name and karma persist.
func (s *State) BeginLife(setting string) {
	s.Health = 100
	s.Inventory = []string{}
	s.Turn = 0
	s.ChosenSetting = setting
	s.LastGamemasterMessage = ""
	s.LastPlayerMessage = ""
	s.TurnSummary = ""
	s.ImagePrompt = ""
}

// Snapshot is the read-only view handed to the UI on every state change.
type Snapshot struct {
	Name        string
	Health      int
	Karma       int
	Inventory   []string
	Turn        int
	LastMessage string
	ImagePrompt string
}

func (s *State) Snapshot() Snapshot {
	inv := make([]string, len(s.Inventory))
	copy(inv, s.Inventory)
	return Snapshot{
		Name:        s.Name,
		Health:      s.Health,
		Karma:       s.Karma,
		Inventory:   inv,
		Turn:        s.Turn,
		LastMessage: s.LastGamemasterMessage,
		ImagePrompt: s.ImagePrompt,
	}
}
