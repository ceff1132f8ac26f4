package ai

import (
	"time"

	"charterdesk/internal/modules/intent"
)

// Models maps each routing slot to a backend model name.
type Models struct {
	Primary   string
	Reasoning string
	Summary   string
}

func (m Models) For(slot intent.Slot) string {
	switch slot {
	case intent.SlotReasoning:
		if m.Reasoning != "" {
			return m.Reasoning
		}
	case intent.SlotSummary:
		if m.Summary != "" {
			return m.Summary
		}
	}
	return m.Primary
}

// Sampling holds the generation parameters shared by all slots.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// BackendConfig configures a remote backend.
type BackendConfig struct {
	BaseURL  string
	APIKey   string
	Models   Models
	Sampling Sampling
	Brand    string
	Timeout  time.Duration
}
