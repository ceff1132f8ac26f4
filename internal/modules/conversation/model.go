// README: Conversation record and state flow definitions.
package conversation

import (
	"time"

	"charterdesk/internal/modules/intent"
	"charterdesk/internal/types"
)

type State string

const (
	StateIdle       State = "idle"
	StateReassure   State = "reassure"
	StateIntake     State = "intake"
	StateSearching  State = "searching"
	StatePricing    State = "pricing"
	StatePresenting State = "presenting"
	StateConfirming State = "confirming"
)

// QuoteSnapshot is the part of the last full quote kept for the booking hand-off.
type QuoteSnapshot struct {
	OperatorID   types.ID `json:"operator_id"`
	OperatorName string   `json:"operator_name"`
	Aircraft     string   `json:"aircraft"`
	PriceGBP     int64    `json:"price_gbp"`
	Note         string   `json:"note"`
	Alternatives []int64  `json:"alternatives_gbp,omitempty"`
}

// CachedTools holds the outputs of the most recent tool pipeline run.
type CachedTools struct {
	Calls []string       `json:"calls,omitempty"`
	Quote *QuoteSnapshot `json:"quote,omitempty"`
	RanAt time.Time      `json:"ran_at,omitempty"`
}

type Record struct {
	ID        types.ID              `json:"id"`
	State     State                 `json:"state"`
	Context   types.AviationContext `json:"context"`
	History   []string              `json:"history"`
	Tools     CachedTools           `json:"tools"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func NewRecord(id types.ID, now time.Time) *Record {
	return &Record{
		ID:        id,
		State:     StateIdle,
		History:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers never share slices with the store.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.History = append([]string(nil), r.History...)
	c.Tools.Calls = append([]string(nil), r.Tools.Calls...)
	if r.Tools.Quote != nil {
		q := *r.Tools.Quote
		q.Alternatives = append([]int64(nil), r.Tools.Quote.Alternatives...)
		c.Tools.Quote = &q
	}
	return &c
}

// Transition maps the routed intent and merged context to the next state.
func Transition(in intent.Intent, ctx types.AviationContext) State {
	switch {
	case in == intent.Reassure:
		return StateReassure
	case in == intent.Intake || !ctx.HasAllRequired():
		return StateIntake
	case in == intent.Availability || in == intent.Pricing:
		return StateSearching
	case in == intent.Tools:
		return StatePresenting
	}
	return StateIdle
}

// Advance is Transition with memory of the previous state: confirming a
// presented quote moves the conversation to confirming.
func Advance(prev State, in intent.Intent, ctx types.AviationContext) State {
	if prev == StatePresenting && in == intent.Tools {
		return StateConfirming
	}
	return Transition(in, ctx)
}
