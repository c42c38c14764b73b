package turn

import (
	"context"
	"math/rand"

	"samsara/internal/debug"
	"samsara/internal/game"
	"samsara/internal/game/hazard"
	"samsara/internal/game/health"
	"samsara/internal/game/karma"
	"samsara/internal/game/narrative"
	"samsara/internal/game/settings"
	"samsara/internal/llm"
	"samsara/internal/logging"
	"samsara/internal/observability"
)

// Orchestrator runs the turn pipeline: evaluators, narrative selection,
// hazard injection, the composite narrative call, reconciliation, and
// life/death transitions. It is the sole owner and mutator of the GameState.
type Orchestrator struct {
	llm       game.Completer
	health    *health.Evaluator
	karma     *karma.Evaluator
	hazard    *hazard.System
	narrative *narrative.Selector
	catalog   *settings.Catalog
	rng       *rand.Rand
	debug     *debug.Logger
	logger    *logging.CompletionLogger
	sessionID string

	state *game.State
}

type Config struct {
	LLM       game.Completer
	Health    *health.Evaluator
	Karma     *karma.Evaluator
	Hazard    *hazard.System
	Narrative *narrative.Selector
	Catalog   *settings.Catalog
	RNG       *rand.Rand
	Debug     *debug.Logger
	Logger    *logging.CompletionLogger
	SessionID string
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		llm:       cfg.LLM,
		health:    cfg.Health,
		karma:     cfg.Karma,
		hazard:    cfg.Hazard,
		narrative: cfg.Narrative,
		catalog:   cfg.Catalog,
		rng:       cfg.RNG,
		debug:     cfg.Debug,
		logger:    cfg.Logger,
		sessionID: cfg.SessionID,
	}
}

// Rebirth describes the new life started after a death.
type Rebirth struct {
	Setting        string
	OpeningMessage string
	StartingItems  []string
}

// Outcome is everything the UI needs to render one processed turn.
type Outcome struct {
	GamemasterMessage string
	HealthDelta       int
	HealthNote        string
	KarmaDelta        int
	KarmaNote         string
	HazardEvent       string
	ItemsGained       []string
	ItemsLost         []string
	Died              bool
	Rebirth           *Rebirth
	ImagePrompt       string
	Snapshot          game.Snapshot
}

// State exposes the current snapshot for display.
func (o *Orchestrator) State() game.Snapshot {
	return o.state.Snapshot()
}

// StartSession creates the session state for a named player and opens their
// first life.
func (o *Orchestrator) StartSession(ctx context.Context, name string) Outcome {
	ctx = observability.WithSessionID(ctx, o.sessionID)
	o.state = game.NewState(name)
	rebirth := o.beginLife(ctx)

	return Outcome{
		GamemasterMessage: rebirth.OpeningMessage,
		Rebirth:           &rebirth,
		ImagePrompt:       o.state.ImagePrompt,
		Snapshot:          o.state.Snapshot(),
	}
}

// ProcessTurn runs one player action through the full pipeline. It never
// returns an error: every failure inside degrades to a safe default and the
// outcome is always renderable.
func (o *Orchestrator) ProcessTurn(ctx context.Context, action string) Outcome {
	ctx = observability.WithSessionID(ctx, o.sessionID)
	s := o.state
	s.LastPlayerMessage = action

	// Local evaluators run first; their results are authoritative for the
	// rest of the turn regardless of what the narrative model claims.
	healthResult := o.health.Evaluate(llm.WithOperationType(ctx, "health_eval"), action, health.Context{
		LastMessage: s.LastGamemasterMessage,
		Situation:   s.ChosenSetting,
		Inventory:   s.Inventory,
	})
	karmaResult := o.karma.Evaluate(llm.WithOperationType(ctx, "karma_eval"), action, karma.Context{
		LastMessage: s.LastGamemasterMessage,
		Situation:   s.ChosenSetting,
	})

	s.Health = health.CalculateFinalHealth(s.Health, healthResult.Delta)
	s.Karma = karma.CalculateFinalKarma(s.Karma, karmaResult.Delta)

	element := o.narrative.Select(llm.WithOperationType(ctx, "narrative_element"), s)

	var event *hazard.Event
	if o.hazard.ShouldFire(s.Turn) {
		generated := o.hazard.Generate(llm.WithOperationType(ctx, "hazard"), s)
		event = &generated
		o.debug.Printf("hazard fired on turn %d (lethal=%t): %s", s.Turn, generated.Lethal, generated.Description)
	}

	prompt := buildTurnPrompt(s, element, event)

	response, err := o.llm.Complete(llm.WithOperationType(ctx, "turn_response"), prompt)
	if err != nil {
		o.debug.Printf("turn response failed: %v", err)
		response = ""
	}
	o.logCompletion(prompt, response, err)

	parsed := Parse(response, s)

	// Reconciliation: the model's own health/karma numbers are always
	// discarded in favor of the evaluator-derived values.
	parsed.Health = s.Health
	parsed.Karma = s.Karma

	gained, lost := diffInventory(s.Inventory, parsed.Inventory)

	s.Health = parsed.Health
	s.Karma = parsed.Karma
	s.Inventory = parsed.Inventory
	s.LastGamemasterMessage = parsed.GamemasterMessage
	s.TurnSummary = parsed.TurnSummary
	s.ImagePrompt = parsed.ImagePrompt
	s.Turn++

	outcome := Outcome{
		GamemasterMessage: parsed.GamemasterMessage,
		HealthDelta:       healthResult.Delta,
		HealthNote:        healthResult.Explanation,
		KarmaDelta:        karmaResult.Delta,
		KarmaNote:         karmaResult.Explanation,
		ItemsGained:       gained,
		ItemsLost:         lost,
		ImagePrompt:       parsed.ImagePrompt,
	}
	if event != nil {
		outcome.HazardEvent = event.Description
	}

	if s.Health <= 0 || healthResult.Fatal {
		s.Health = 0
		outcome.Died = true
		rebirth := o.beginLife(ctx)
		outcome.Rebirth = &rebirth
		outcome.ImagePrompt = o.state.ImagePrompt
	}

	outcome.Snapshot = s.Snapshot()
	return outcome
}

// beginLife starts a fresh life: a setting weighted by the karma carried
// over, an opening situation, and a re-seeded inventory. Name and karma
// survive; everything else resets.
func (o *Orchestrator) beginLife(ctx context.Context) Rebirth {
	setting := o.catalog.Pick(o.state.Karma, o.rng)
	o.state.BeginLife(setting)

	situation := o.narrative.GenerateOpeningSituation(llm.WithOperationType(ctx, "opening_situation"), setting)
	o.state.LastGamemasterMessage = situation

	items := o.narrative.ExtractStartingItems(llm.WithOperationType(ctx, "item_extraction"), situation)
	o.state.Inventory = items

	o.state.ImagePrompt = setting

	return Rebirth{
		Setting:        setting,
		OpeningMessage: situation,
		StartingItems:  items,
	}
}

func (o *Orchestrator) logCompletion(prompt, response string, callErr error) {
	if o.logger == nil {
		return
	}

	metadata := logging.CompletionMetadata{
		Model:     "gpt-5-2025-08-07",
		Operation: "turn_response",
		MaxTokens: 600,
	}
	if callErr != nil {
		errText := callErr.Error()
		metadata.Error = &errText
	}

	if err := o.logger.LogCompletion(o.sessionID, o.state.Snapshot(), prompt, response, metadata); err != nil {
		o.debug.Printf("failed to log completion: %v", err)
	}
}

// diffInventory computes set differences between the pre- and post-turn
// inventories; ordering carries no significance for notifications.
func diffInventory(before, after []string) (gained, lost []string) {
	beforeSet := make(map[string]bool, len(before))
	for _, item := range before {
		beforeSet[item] = true
	}
	afterSet := make(map[string]bool, len(after))
	for _, item := range after {
		afterSet[item] = true
	}

	for _, item := range after {
		if !beforeSet[item] {
			gained = append(gained, item)
		}
	}
	for _, item := range before {
		if !afterSet[item] {
			lost = append(lost, item)
		}
	}

	return gained, lost
}
