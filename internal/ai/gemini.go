package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiName         = "gemini"
	defaultGeminiModel = "gemini-2.0-flash"
)

// GeminiBackend implements Backend using Google's Gemini models.
type GeminiBackend struct {
	client *genai.Client
	cfg    BackendConfig

	mu     sync.Mutex
	models map[string]*genai.GenerativeModel
}

// NewGeminiBackend initializes a new Gemini client.
// apiKey should be provided from configuration.
func NewGeminiBackend(ctx context.Context, cfg BackendConfig) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if cfg.Models.Primary == "" {
		cfg.Models.Primary = defaultGeminiModel
	}
	return &GeminiBackend{
		client: client,
		cfg:    cfg,
		models: make(map[string]*genai.GenerativeModel),
	}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiBackend) Close() {
	g.client.Close()
}

func (g *GeminiBackend) Name() string { return geminiName }

func (g *GeminiBackend) model(name string) *genai.GenerativeModel {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m, ok := g.models[name]; ok {
		return m
	}
	m := g.client.GenerativeModel(name)
	m.SetTemperature(float32(g.cfg.Sampling.Temperature))
	if g.cfg.Sampling.TopP > 0 {
		m.SetTopP(float32(g.cfg.Sampling.TopP))
	}
	if g.cfg.Sampling.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(g.cfg.Sampling.MaxTokens))
	}
	m.StopSequences = stopSequences
	g.models[name] = m
	return m
}

// Healthy fetches the primary model's metadata.
func (g *GeminiBackend) Healthy(ctx context.Context) error {
	if _, err := g.model(g.cfg.Models.Primary).Info(ctx); err != nil {
		return fmt.Errorf("gemini: model info: %w", err)
	}
	return nil
}

func (g *GeminiBackend) Generate(ctx context.Context, req Request) (*Response, error) {
	name := g.cfg.Models.For(req.Route.Slot)
	resp, err := g.model(name).GenerateContent(ctx, genai.Text(BuildPrompt(g.cfg.Brand, req)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	// Extract text from the response parts.
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	polished := Polish(text.String())
	if polished == "" {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return &Response{
		Text:       polished,
		Intent:     req.Route.Intent,
		ModelUsed:  geminiName + ":" + name,
		Confidence: req.Route.Confidence,
		Reasoning:  req.Route.Reasoning,
	}, nil
}
