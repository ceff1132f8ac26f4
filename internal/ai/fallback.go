package ai

import (
	"context"
	"strings"

	"charterdesk/internal/modules/intent"
	"charterdesk/internal/rules"
)

const (
	fallbackModel  = "fallback"
	confirmQuote   = "Would you like me to proceed with this option?"
	missingNothing = "your go-ahead"
)

// Fallback is the deterministic responder used whenever the primary backend
// is unhealthy or fails. It never returns an error.
type Fallback struct {
	rules []rules.FallbackRule
}

func NewFallback(set *rules.Set) *Fallback {
	return &Fallback{rules: set.Fallback}
}

func (f *Fallback) Generate(_ context.Context, req Request) (*Response, error) {
	resp := &Response{
		Intent:     req.Route.Intent,
		ModelUsed:  fallbackModel,
		Confidence: req.Route.Confidence,
		Reasoning:  req.Route.Reasoning,
	}
	if req.PriorSummary != "" {
		resp.Text = withConfirmation(req.PriorSummary)
		return resp, nil
	}
	rule, ok := f.pick(req)
	if !ok {
		resp.Text = DefaultNextAction
		return resp, nil
	}
	if resp.Intent == "" {
		resp.Intent = intent.Intent(rule.Intent)
	}
	resp.Text = f.render(rule.Text, req)
	return resp, nil
}

// pick prefers the entry tagged with the routed intent, then the first entry
// whose keywords match the message.
func (f *Fallback) pick(req Request) (rules.FallbackRule, bool) {
	for _, r := range f.rules {
		if r.Intent != "" && r.Intent == string(req.Route.Intent) {
			return r, true
		}
	}
	for _, r := range f.rules {
		if r.Match(req.Message) {
			return r, true
		}
	}
	return rules.FallbackRule{}, false
}

func (f *Fallback) render(text string, req Request) string {
	missing := MissingList(req.Context.Missing())
	if missing == "" {
		missing = missingNothing
	}
	return strings.NewReplacer(
		"{missing}", missing,
		"{recap}", Recap(req.Context),
	).Replace(text)
}

func withConfirmation(summary string) string {
	summary = strings.TrimSpace(summary)
	if strings.HasSuffix(summary, "?") {
		return summary
	}
	return summary + " " + confirmQuote
}
