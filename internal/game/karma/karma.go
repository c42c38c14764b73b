package karma

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"samsara/internal/debug"
	"samsara/internal/game"
)

// The prompt advertises [-15, +15] to the model, but the enforced bound is
// the tighter [-10, +10]; the prompt text is guidance, not a contract.
const (
	minDelta = -10
	maxDelta = 10
)

type Context struct {
	LastMessage string
	Situation   string
}

type Result struct {
	Delta       int
	Explanation string
}

// Evaluator scores the moral weight of a player action.
type Evaluator struct {
	llm   game.Completer
	debug *debug.Logger
}

func NewEvaluator(llm game.Completer, debugLogger *debug.Logger) *Evaluator {
	return &Evaluator{llm: llm, debug: debugLogger}
}

// Evaluate asks the model to score the action. Failures degrade to a
// zero-delta no-op, never an error.
func (e *Evaluator) Evaluate(ctx context.Context, action string, evalCtx Context) Result {
	prompt := buildPrompt(action, evalCtx)

	response, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		e.debug.Printf("karma evaluation failed: %v", err)
		return fallbackResult()
	}

	result, err := parseResponse(response)
	if err != nil {
		e.debug.Printf("karma response unparseable: %v", err)
		return fallbackResult()
	}

	result.Delta = max(minDelta, min(maxDelta, result.Delta))

	return result
}

// CalculateFinalKarma applies a delta and clamps into [-100, 100].
func CalculateFinalKarma(current, delta int) int {
	return max(-100, min(100, current+delta))
}

func fallbackResult() Result {
	return Result{Delta: 0, Explanation: "Unable to evaluate karma change for this action."}
}

func buildPrompt(action string, evalCtx Context) string {
	return fmt.Sprintf(`You are a karma evaluator for a text-based RPG. Your job is to analyze player actions and determine how they should affect their karma score.
Consider the following factors:
1. Moral implications of the choice
2. Impact on others
3. Intentions behind the action
4. Context of the situation
5. Long-term consequences

Current context:
Last gamemaster message: %s
Player's action: %s
Current situation: %s

Based on this action, determine the karma change (-15 to +15) and provide a brief explanation.
ONLY return your response in this exact format:
KARMA_CHANGE: [number]
EXPLANATION: [one sentence explanation]`,
		evalCtx.LastMessage, action, evalCtx.Situation)
}

func parseResponse(response string) (Result, error) {
	var result Result
	var haveChange, haveExplanation bool

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "KARMA_CHANGE:"):
			value := strings.TrimSpace(strings.TrimPrefix(line, "KARMA_CHANGE:"))
			delta, err := strconv.Atoi(value)
			if err != nil {
				return Result{}, fmt.Errorf("invalid karma change %q: %w", value, err)
			}
			result.Delta = delta
			haveChange = true
		case strings.HasPrefix(line, "EXPLANATION:"):
			result.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "EXPLANATION:"))
			haveExplanation = true
		}
	}

	if !haveChange || !haveExplanation {
		return Result{}, fmt.Errorf("missing fields in response: %q", response)
	}

	return result, nil
}
