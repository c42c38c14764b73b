package hazard

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"samsara/internal/debug"
	"samsara/internal/game"
)

type stubCompleter struct {
	verdict     string
	description string
	err         error
}

func (s stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(prompt, "'YES' or 'NO'") {
		return s.verdict, nil
	}
	return s.description, nil
}

func TestShouldFireNeverOnEarlyTurns(t *testing.T) {
	s := NewSystem(nil, rand.New(rand.NewSource(1)), debug.NewLogger(false))

	for turn := 0; turn < 2; turn++ {
		for i := 0; i < 1000; i++ {
			if s.ShouldFire(turn) {
				t.Fatalf("ShouldFire(%d) fired, first two turns must be safe", turn)
			}
		}
	}
}

func TestShouldFireFrequencyByTier(t *testing.T) {
	tests := []struct {
		turn int
		want float64
	}{
		{2, 0.10},
		{5, 0.10},
		{6, 0.20},
		{10, 0.20},
		{11, 0.30},
		{50, 0.30},
	}

	const trials = 20000
	for _, tt := range tests {
		s := NewSystem(nil, rand.New(rand.NewSource(42)), debug.NewLogger(false))
		fired := 0
		for i := 0; i < trials; i++ {
			if s.ShouldFire(tt.turn) {
				fired++
			}
		}
		rate := float64(fired) / trials
		if math.Abs(rate-tt.want) > 0.02 {
			t.Errorf("turn %d: fire rate %.3f, want about %.2f", tt.turn, rate, tt.want)
		}
	}
}

func TestLethalChance(t *testing.T) {
	tests := []struct {
		karma int
		want  float64
	}{
		{-100, 0.80},
		{0, 0.425},
		{100, 0.05},
	}

	for _, tt := range tests {
		if got := LethalChance(tt.karma); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LethalChance(%d) = %v, want %v", tt.karma, got, tt.want)
		}
	}
}

func TestGenerateVerdict(t *testing.T) {
	tests := []struct {
		name       string
		verdict    string
		wantLethal bool
	}{
		{"yes", "YES", true},
		{"lowercase yes", "yes", true},
		{"yes with whitespace", "  YES\n", true},
		{"no", "NO", false},
		{"hedged answer", "YES, because the player deserves it", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSystem(stubCompleter{
				verdict:     tt.verdict,
				description: "A rockslide thunders down the hillside toward you.",
			}, rand.New(rand.NewSource(1)), debug.NewLogger(false))

			event := s.Generate(context.Background(), &game.State{Karma: -50, Health: 80, Turn: 6})
			if event.Lethal != tt.wantLethal {
				t.Errorf("Lethal = %t, want %t", event.Lethal, tt.wantLethal)
			}
			if event.Description != "A rockslide thunders down the hillside toward you." {
				t.Errorf("Description = %q", event.Description)
			}
		})
	}
}

func TestGenerateDegradesOnFailure(t *testing.T) {
	s := NewSystem(stubCompleter{err: fmt.Errorf("timeout")}, rand.New(rand.NewSource(1)), debug.NewLogger(false))

	event := s.Generate(context.Background(), &game.State{Karma: -100, Health: 10, Turn: 12})

	if event.Lethal {
		t.Error("Lethal = true, an unreachable model must never kill")
	}
	if event.Description == "" {
		t.Error("Description is empty, want survivable fallback text")
	}
}
