// README: Intent router; ordered rules decide intent, model slot and confidence.
package intent

import (
	"fmt"

	"go.uber.org/zap"

	"charterdesk/internal/rules"
	"charterdesk/internal/types"
)

type Router struct {
	rules  []rules.IntentRule
	logger *zap.Logger
}

func NewRouter(set *rules.Set, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{rules: set.Intents, logger: logger}
}

// Route returns the first matching rule's intent, or general when none match.
func (r *Router) Route(message string, ctx types.AviationContext) Route {
	complete := ctx.HasAllRequired()
	for _, rule := range r.rules {
		in := Intent(rule.Intent)
		if !in.Valid() {
			r.logger.Warn("skipping unknown intent rule", zap.String("intent", rule.Intent))
			continue
		}
		if !rule.Applies(complete) || !rule.Match(message) {
			continue
		}
		return newRoute(in, reasoning(in, complete))
	}
	return newRoute(General, "no rule matched")
}

func newRoute(in Intent, why string) Route {
	return Route{
		Intent:     in,
		Slot:       in.Slot(),
		Confidence: in.Confidence(),
		Reasoning:  why,
	}
}

func reasoning(in Intent, complete bool) string {
	switch in {
	case Intake:
		return "help-seeking message with incomplete context"
	case Tools:
		return "confirmation with complete context"
	case General:
		return "no specific signal"
	}
	return fmt.Sprintf("%s keywords matched (context complete: %t)", in, complete)
}
