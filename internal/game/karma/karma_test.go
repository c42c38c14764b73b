package karma

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

func TestEvaluateParsesResponse(t *testing.T) {
	e := NewEvaluator(stubCompleter{
		response: "KARMA_CHANGE: 7\nEXPLANATION: You gave your last coin to a beggar.",
	}, debug.NewLogger(false))

	result := e.Evaluate(context.Background(), "give my coin to the beggar", Context{})

	if result.Delta != 7 {
		t.Errorf("Delta = %d, want 7", result.Delta)
	}
	if result.Explanation != "You gave your last coin to a beggar." {
		t.Errorf("Explanation = %q", result.Explanation)
	}
}

func TestEvaluateClampsDelta(t *testing.T) {
	// The prompt advertises a -15..+15 range but the enforced bound is
	// -10..+10.
	tests := []struct {
		name     string
		reported int
		want     int
	}{
		{"above maximum", 15, 10},
		{"below minimum", -20, -10},
		{"within bounds", -3, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(stubCompleter{
				response: fmt.Sprintf("KARMA_CHANGE: %d\nEXPLANATION: Something morally weighty.", tt.reported),
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
		{"malformed response", stubCompleter{response: "that was a kind act"}},
		{"non-numeric change", stubCompleter{response: "KARMA_CHANGE: much\nEXPLANATION: Kind."}},
		{"missing explanation", stubCompleter{response: "KARMA_CHANGE: 5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.stub, debug.NewLogger(false))
			result := e.Evaluate(context.Background(), "do something", Context{})

			if result.Delta != 0 {
				t.Errorf("Delta = %d, want 0 fallback", result.Delta)
			}
			if result.Explanation == "" {
				t.Error("fallback result has no explanation")
			}
		})
	}
}

func TestCalculateFinalKarma(t *testing.T) {
	tests := []struct {
		current, delta, want int
	}{
		{0, 5, 5},
		{95, 10, 100},
		{-95, -10, -100},
		{50, -60, -10},
	}

	for _, tt := range tests {
		if got := CalculateFinalKarma(tt.current, tt.delta); got != tt.want {
			t.Errorf("CalculateFinalKarma(%d, %d) = %d, want %d", tt.current, tt.delta, got, tt.want)
		}
	}
}
