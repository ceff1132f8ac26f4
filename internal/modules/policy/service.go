// README: Policy gate classifies raw messages against disallowed-content rules.
package policy

import (
	"go.uber.org/zap"

	"charterdesk/internal/rules"
)

type Gate struct {
	rules  []rules.PolicyRule
	logger *zap.Logger
}

func NewGate(set *rules.Set, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{rules: set.Policy, logger: logger}
}

// Enforce returns the first matching violation in rule order. Rules naming a
// violation without a canned message are skipped.
func (g *Gate) Enforce(message string) Verdict {
	for i := range g.rules {
		r := &g.rules[i]
		v := Violation(r.Violation)
		msg := CannedMessage(v)
		if msg == "" {
			g.logger.Warn("policy rule has unknown violation", zap.String("violation", r.Violation))
			continue
		}
		if r.Match(message) {
			return Verdict{Violation: v, Message: msg, Blocked: true}
		}
	}
	return Verdict{Violation: ViolationNone}
}
