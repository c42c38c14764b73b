package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"samsara/cmd/game/ui"
	"samsara/internal/debug"
	"samsara/internal/game/hazard"
	"samsara/internal/game/health"
	"samsara/internal/game/karma"
	"samsara/internal/game/narrative"
	"samsara/internal/game/settings"
	"samsara/internal/game/turn"
	"samsara/internal/image"
	"samsara/internal/llm"
	"samsara/internal/logging"
	"samsara/internal/observability"
)

func createApp() (ui.Model, func(), error) {
	// .env is optional; real env vars win either way.
	godotenv.Load()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return ui.Model{}, nil, fmt.Errorf("please set OPENAI_API_KEY environment variable")
	}

	debugMode := os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true"
	debugLogger := debug.NewLogger(debugMode)

	ctx := context.Background()
	tracingConfig := observability.LoadConfigFromEnv()
	tracerProvider, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	sessionID := uuid.NewString()
	llmService := llm.NewService(apiKey, debugLogger)
	debugLogger.Printf("Starting session %s", sessionID)

	completionLogger, err := logging.NewCompletionLogger()
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to initialize completion logger: %w", err)
	}

	catalogPath := os.Getenv("SAMSARA_SETTINGS")
	if catalogPath == "" {
		catalogPath = "situations.txt"
	}
	catalog, err := settings.Load(catalogPath)
	if err != nil {
		debugLogger.Printf("Settings catalog unavailable (%v), using fallback setting", err)
		catalog = nil
	}

	cacheDir := os.Getenv("SAMSARA_IMAGE_CACHE")
	if cacheDir == "" {
		cacheDir = "image_cache"
	}
	imageGenerator, err := image.NewGenerator(apiKey, cacheDir, debugLogger)
	if err != nil {
		debugLogger.Printf("Image generation unavailable: %v", err)
		imageGenerator = nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	orchestrator := turn.NewOrchestrator(turn.Config{
		LLM:       llmService,
		Health:    health.NewEvaluator(llmService, debugLogger),
		Karma:     karma.NewEvaluator(llmService, debugLogger),
		Hazard:    hazard.NewSystem(llmService, rng, debugLogger),
		Narrative: narrative.NewSelector(llmService, rng, debugLogger),
		Catalog:   catalog,
		RNG:       rng,
		Debug:     debugLogger,
		Logger:    completionLogger,
		SessionID: sessionID,
	})

	loggers := ui.GameLoggers{
		Debug:      debugLogger,
		Completion: completionLogger,
	}
	model := ui.NewModel(orchestrator, imageGenerator, loggers)

	cleanup := func() {
		model.Cleanup()
		if tracerProvider != nil {
			tracerProvider.Shutdown(context.Background())
		}
	}

	return model, cleanup, nil
}
