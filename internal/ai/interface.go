package ai

import (
	"context"

	"charterdesk/internal/modules/intent"
	"charterdesk/internal/types"
)

// Generator produces the reply text for one turn.
// Implementations: OllamaBackend, GeminiBackend, Fallback and Selector.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Backend is a remote Generator with a liveness probe.
type Backend interface {
	Generator
	Name() string
	// Healthy returns nil when the backend can take a request now.
	Healthy(ctx context.Context) error
}

type Request struct {
	Message string
	Context types.AviationContext
	// PriorSummary carries tool outcomes into the second pass.
	PriorSummary string
	Route        intent.Route
	// Role is the caller's terminal role (broker, operator, pilot, crew).
	Role string
}

type Response struct {
	Text       string        `json:"text"`
	Intent     intent.Intent `json:"intent"`
	ModelUsed  string        `json:"model_used"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
}
