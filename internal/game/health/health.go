package health

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"samsara/internal/debug"
	"samsara/internal/game"
)

// Bounds on a single turn's health delta. Fatal actions bypass the clamp and
// always land at -100.
const (
	minDelta = -50
	maxDelta = 25
)

var healingKeywords = []string{
	"heal", "rest", "sleep", "bandage", "medicine", "potion", "cure",
	"treat", "recover", "meditate", "bind wound", "patch", "doctor",
	"medical", "first aid", "healing", "health", "restore",
}

// Context carries the situational information the evaluator hands the model.
type Context struct {
	LastMessage string
	Situation   string
	Inventory   []string
}

// Result is the outcome of evaluating one player action.
type Result struct {
	Delta       int
	Explanation string
	Fatal       bool
}

// Evaluator scores the physical-risk weight of a player action.
type Evaluator struct {
	llm   game.Completer
	debug *debug.Logger
}

func NewEvaluator(llm game.Completer, debugLogger *debug.Logger) *Evaluator {
	return &Evaluator{llm: llm, debug: debugLogger}
}

// IsHealingAttempt reports whether the action text reads as an attempt to
// heal, by case-insensitive substring match against a fixed keyword set.
func IsHealingAttempt(action string) bool {
	lower := strings.ToLower(action)
	for _, keyword := range healingKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Evaluate asks the model to score the action. Any invoke or parse failure
// degrades to a zero-delta no-op; the turn pipeline never sees an error.
func (e *Evaluator) Evaluate(ctx context.Context, action string, evalCtx Context) Result {
	prompt := buildPrompt(action, evalCtx, IsHealingAttempt(action))

	response, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		e.debug.Printf("health evaluation failed: %v", err)
		return fallbackResult()
	}

	result, err := parseResponse(response)
	if err != nil {
		e.debug.Printf("health response unparseable: %v", err)
		return fallbackResult()
	}

	if result.Fatal {
		result.Delta = -100
	} else {
		result.Delta = max(minDelta, min(maxDelta, result.Delta))
	}

	return result
}

// CalculateFinalHealth applies a delta and clamps into [0, 100].
func CalculateFinalHealth(current, delta int) int {
	return max(0, min(100, current+delta))
}

func fallbackResult() Result {
	return Result{Delta: 0, Explanation: "Unable to evaluate health change for this action.", Fatal: false}
}

func buildPrompt(action string, evalCtx Context, healingAttempt bool) string {
	inventory := "empty"
	if len(evalCtx.Inventory) > 0 {
		inventory = strings.Join(evalCtx.Inventory, ", ")
	}

	return fmt.Sprintf(`You are a health evaluator for a text-based RPG. Your job is to analyze player actions and determine how they should affect their health.

Current context:
Last gamemaster message: %s
Player's action: %s
Current situation: %s
Current inventory: %s
Is healing attempt: %t

Consider the following factors:
1. Physical danger of the action
2. Current situation dangers
3. Available resources/items
4. Potential for injury
5. If healing attempt, effectiveness based on method and resources

Rules:
1. Health changes should be between -50 and +25
2. Only allow healing if player specifically takes healing action AND has appropriate resources
3. Dangerous actions should have consequences
4. Some actions might be instantly fatal
5. Consider inventory items that might help or harm
6. If a situation would not have an immediate effect on health, return a health change of 0

Based on this action, determine the health change and provide a brief explanation.
ONLY return your response in this exact format:
HEALTH_CHANGE: [number]
EXPLANATION: [one sentence explanation]
IS_FATAL: [true/false]`,
		evalCtx.LastMessage, action, evalCtx.Situation, inventory, healingAttempt)
}

func parseResponse(response string) (Result, error) {
	var result Result
	var haveChange, haveExplanation, haveFatal bool

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "HEALTH_CHANGE:"):
			value := strings.TrimSpace(strings.TrimPrefix(line, "HEALTH_CHANGE:"))
			delta, err := strconv.Atoi(value)
			if err != nil {
				return Result{}, fmt.Errorf("invalid health change %q: %w", value, err)
			}
			result.Delta = delta
			haveChange = true
		case strings.HasPrefix(line, "EXPLANATION:"):
			result.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "EXPLANATION:"))
			haveExplanation = true
		case strings.HasPrefix(line, "IS_FATAL:"):
			value := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "IS_FATAL:")))
			result.Fatal = value == "true"
			haveFatal = true
		}
	}

	if !haveChange || !haveExplanation || !haveFatal {
		return Result{}, fmt.Errorf("missing fields in response: %q", response)
	}

	return result, nil
}
