package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaURL     = "http://127.0.0.1:11434"
	defaultOllamaTimeout = 8 * time.Second
	ollamaName           = "ollama"
)

var ErrEmptyResponse = errors.New("empty response")

var stopSequences = []string{"\nUser:", "\nBroker:"}

// ollamaOptions carries max_tokens as the wire contract names it and
// mirrors it into num_predict, the key Ollama itself reads.
type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	MaxTokens   int      `json:"max_tokens"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaBackend talks to an Ollama-compatible server over /api/generate.
// One bounded attempt per call; retries are left to the Selector's fallback.
type OllamaBackend struct {
	cfg  BackendConfig
	http *http.Client
}

func NewOllamaBackend(cfg BackendConfig) *OllamaBackend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultOllamaTimeout
	}
	return &OllamaBackend{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (b *OllamaBackend) Name() string { return ollamaName }

// Healthy lists the server's models. The primary model must be among them
// when the server reports any.
func (b *OllamaBackend) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("ollama: build probe: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: probe status %s", resp.Status)
	}
	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("ollama: decode tags: %w", err)
	}
	want := b.cfg.Models.Primary
	if want == "" || len(tags.Models) == 0 {
		return nil
	}
	for _, m := range tags.Models {
		if m.Name == want || strings.TrimSuffix(m.Name, ":latest") == want {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q not available", want)
}

func (b *OllamaBackend) Generate(ctx context.Context, req Request) (*Response, error) {
	model := b.cfg.Models.For(req.Route.Slot)
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: BuildPrompt(b.cfg.Brand, req),
		Stream: false,
		Options: ollamaOptions{
			Temperature: b.cfg.Sampling.Temperature,
			TopP:        b.cfg.Sampling.TopP,
			MaxTokens:   b.cfg.Sampling.MaxTokens,
			NumPredict:  b.cfg.Sampling.MaxTokens,
			Stop:        stopSequences,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama: generate status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama: %s", out.Error)
	}
	text := Polish(out.Response)
	if text == "" {
		return nil, fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}
	return &Response{
		Text:       text,
		Intent:     req.Route.Intent,
		ModelUsed:  ollamaName + ":" + model,
		Confidence: req.Route.Confidence,
		Reasoning:  req.Route.Reasoning,
	}, nil
}
