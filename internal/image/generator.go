package image

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"samsara/internal/debug"
)

const styleGuidance = "Create a vivid, detailed illustration in a fantasy game art style. Focus on dramatic lighting and rich colors."

const maxPromptLength = 800

// Generator turns scene descriptions into illustration files, with an
// md5-keyed disk cache so repeated prompts never hit the API twice.
type Generator struct {
	client   *openai.Client
	http     *http.Client
	cacheDir string
	debug    *debug.Logger
}

func NewGenerator(apiKey, cacheDir string, debugLogger *debug.Logger) (*Generator, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image cache dir: %w", err)
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Generator{
		client:   &client,
		http:     &http.Client{Timeout: 60 * time.Second},
		cacheDir: cacheDir,
		debug:    debugLogger,
	}, nil
}

// Generate produces an illustration for the prompt and returns the path of
// the cached PNG. It blocks for the full API round trip and is meant to run
// off the turn pipeline's critical path.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	enhanced := enhancePrompt(prompt)
	cachePath := filepath.Join(g.cacheDir, hashPrompt(enhanced)+".png")

	if _, err := os.Stat(cachePath); err == nil {
		g.debug.Printf("image cache hit: %s", cachePath)
		return cachePath, nil
	}

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModelDallE3,
		Prompt: enhanced,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no image")
	}

	if err := g.download(ctx, resp.Data[0].URL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

func (g *Generator) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build image download request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

func enhancePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if len(prompt) > maxPromptLength {
		prompt = prompt[:maxPromptLength] + "..."
	}
	return prompt + ". " + styleGuidance
}

func hashPrompt(prompt string) string {
	sum := md5.Sum([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
