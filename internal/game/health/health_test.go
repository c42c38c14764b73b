package health

import (
	"context"
	"fmt"
	"testing"

	"samsara/internal/debug"
)

type stubCompleter struct {
	response string
	err      error
}

func (s stubCompleter) Complete(context.Context, string) (string, error) {
	return s.response, s.err
}

func TestIsHealingAttempt(t *testing.T) {
	tests := []struct {
		action string
		want   bool
	}{
		{"drink the healing potion", true},
		{"rest by the fire", true},
		{"apply first aid to my leg", true},
		{"Meditate under the waterfall", true},
		{"attack the goblin", false},
		{"walk north", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if got := IsHealingAttempt(tt.action); got != tt.want {
				t.Errorf("IsHealingAttempt(%q) = %t, want %t", tt.action, got, tt.want)
			}
		})
	}
}

func TestEvaluateParsesResponse(t *testing.T) {
	e := NewEvaluator(stubCompleter{
		response: "HEALTH_CHANGE: -20\nEXPLANATION: The rocks tore your hands open.\nIS_FATAL: false",
	}, debug.NewLogger(false))

	result := e.Evaluate(context.Background(), "climb the cliff barehanded", Context{})

	if result.Delta != -20 {
		t.Errorf("Delta = %d, want -20", result.Delta)
	}
	if result.Explanation != "The rocks tore your hands open." {
		t.Errorf("Explanation = %q", result.Explanation)
	}
	if result.Fatal {
		t.Error("Fatal = true, want false")
	}
}

func TestEvaluateFatalForcesFullDamage(t *testing.T) {
	// A fatal verdict overrides whatever delta the model reported.
	e := NewEvaluator(stubCompleter{
		response: "HEALTH_CHANGE: -5\nEXPLANATION: The fall is unsurvivable.\nIS_FATAL: true",
	}, debug.NewLogger(false))

	result := e.Evaluate(context.Background(), "jump off the tower", Context{})

	if !result.Fatal {
		t.Fatal("Fatal = false, want true")
	}
	if result.Delta != -100 {
		t.Errorf("Delta = %d, want -100", result.Delta)
	}
}

func TestEvaluateClampsDelta(t *testing.T) {
	tests := []struct {
		name     string
		reported int
		want     int
	}{
		{"below minimum", -80, -50},
		{"above maximum", 40, 25},
		{"within bounds", -10, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(stubCompleter{
				response: fmt.Sprintf("HEALTH_CHANGE: %d\nEXPLANATION: Something happened.\nIS_FATAL: false", tt.reported),
			}, debug.NewLogger(false))

			result := e.Evaluate(context.Background(), "do something", Context{})
			if result.Delta != tt.want {
				t.Errorf("Delta = %d, want %d", result.Delta, tt.want)
			}
		})
	}
}

func TestEvaluateDegradesOnFailure(t *testing.T) {
	tests := []struct {
		name string
		stub stubCompleter
	}{
		{"llm error", stubCompleter{err: fmt.Errorf("timeout")}},
		{"malformed response", stubCompleter{response: "the action seems risky"}},
		{"missing fatal field", stubCompleter{response: "HEALTH_CHANGE: -10\nEXPLANATION: Ouch."}},
		{"non-numeric change", stubCompleter{response: "HEALTH_CHANGE: lots\nEXPLANATION: Ouch.\nIS_FATAL: false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.stub, debug.NewLogger(false))
			result := e.Evaluate(context.Background(), "do something", Context{})

			if result.Delta != 0 || result.Fatal {
				t.Errorf("result = %+v, want zero-delta non-fatal fallback", result)
			}
			if result.Explanation == "" {
				t.Error("fallback result has no explanation")
			}
		})
	}
}

func TestCalculateFinalHealth(t *testing.T) {
	tests := []struct {
		current, delta, want int
	}{
		{100, -30, 70},
		{10, -50, 0},
		{90, 25, 100},
		{50, 0, 50},
		{100, -100, 0},
	}

	for _, tt := range tests {
		if got := CalculateFinalHealth(tt.current, tt.delta); got != tt.want {
			t.Errorf("CalculateFinalHealth(%d, %d) = %d, want %d", tt.current, tt.delta, got, tt.want)
		}
	}
}
