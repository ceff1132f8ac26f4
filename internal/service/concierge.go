// README: Concierge orchestrates one chat turn; policy, extraction, routing, generation, tools, state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"charterdesk/internal/ai"
	"charterdesk/internal/metrics"
	"charterdesk/internal/modules/conversation"
	"charterdesk/internal/modules/extraction"
	"charterdesk/internal/modules/handoff"
	"charterdesk/internal/modules/intent"
	"charterdesk/internal/modules/policy"
	"charterdesk/internal/tools"
	"charterdesk/internal/types"
)

const (
	// ErrorReply is returned when a turn fails unexpectedly.
	ErrorReply      = "I encountered an error processing your request. Do you want me to try a different approach?"
	errorConfidence = 0.5
	blockConfidence = 1.0

	DefaultRole  = "broker"
	DefaultBrand = "JetLink"
)

// Result is what a caller sees for one processed message.
type Result struct {
	Reply      string                `json:"reply"`
	NewState   conversation.State    `json:"new_state"`
	Context    types.AviationContext `json:"context"`
	ToolCalls  []string              `json:"tool_calls"`
	Confidence float64               `json:"confidence"`
}

type Deps struct {
	Store     conversation.Store
	Gate      *policy.Gate
	Extractor *extraction.Extractor
	Router    *intent.Router
	Generator ai.Generator
	Pipeline  *tools.Pipeline
	// Notifier receives confirmed quotes; nil logs them.
	Notifier handoff.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Brand    string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Concierge struct {
	store     conversation.Store
	gate      *policy.Gate
	extractor *extraction.Extractor
	router    *intent.Router
	generator ai.Generator
	pipeline  *tools.Pipeline
	notifier  handoff.Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
	brand     string
	now       func() time.Time
}

func NewConcierge(d Deps) *Concierge {
	c := &Concierge{
		store:     d.Store,
		gate:      d.Gate,
		extractor: d.Extractor,
		router:    d.Router,
		generator: d.Generator,
		pipeline:  d.Pipeline,
		notifier:  d.Notifier,
		metrics:   d.Metrics,
		logger:    d.Logger,
		brand:     d.Brand,
		now:       d.Now,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.notifier == nil {
		c.notifier = handoff.NewLogNotifier(c.logger)
	}
	if c.brand == "" {
		c.brand = DefaultBrand
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// ProcessMessage runs one turn for the conversation. It never returns an
// error: failures become ErrorReply at confidence 0.5. Turns of the same
// conversation are serialised.
func (c *Concierge) ProcessMessage(ctx context.Context, message string, id types.ID, role string) (res Result) {
	start := c.now()
	unlock := c.store.Lock(id)
	defer unlock()

	log := c.logger.With(zap.String("conversation_id", string(id)))
	var rec *conversation.Record
	defer func() {
		if r := recover(); r != nil {
			log.Error("turn panicked", zap.Any("panic", r), zap.Stack("stack"))
			res = errorResult(rec)
		}
	}()

	rec, err := c.load(ctx, id, start)
	if err != nil {
		log.Error("load conversation", zap.Error(err))
		return errorResult(nil)
	}

	if v := c.gate.Enforce(message); v.Blocked {
		log.Info("message blocked", zap.String("violation", string(v.Violation)))
		c.metrics.Blocked(string(v.Violation))
		return Result{
			Reply:      v.Message,
			NewState:   rec.State,
			Context:    rec.Context,
			ToolCalls:  []string{},
			Confidence: blockConfidence,
		}
	}

	if role == "" {
		role = DefaultRole
	}
	next := rec.Clone()
	next.Context = next.Context.Merge(c.extractor.Extract(message))
	route := c.router.Route(message, next.Context)
	state := conversation.Advance(rec.State, route.Intent, next.Context)
	if state == conversation.StateConfirming && rec.Tools.Quote == nil {
		state = conversation.Transition(route.Intent, next.Context)
	}

	var out turn
	if state == conversation.StateConfirming {
		out = turn{reply: c.handOff(rec.Tools.Quote), confidence: route.Confidence}
		if err := c.notifier.Notify(ctx, booking(id, role, next, c.now())); err != nil {
			log.Warn("operator hand-off not delivered", zap.Error(err))
		}
	} else {
		out, err = c.respond(ctx, message, role, route, next)
		if err != nil {
			log.Error("generate reply", zap.Error(err))
			return errorResult(rec)
		}
	}

	next.State = state
	next.History = append(next.History, message, out.reply)
	next.UpdatedAt = c.now()
	if err := c.store.Put(ctx, next); err != nil {
		log.Error("save conversation", zap.Error(err))
		return errorResult(rec)
	}

	log.Debug("turn complete",
		zap.String("intent", string(route.Intent)),
		zap.String("state", string(state)),
		zap.Strings("tool_calls", out.toolCalls))
	c.metrics.Turn(string(route.Intent), string(state), c.now().Sub(start))

	calls := out.toolCalls
	if calls == nil {
		calls = []string{}
	}
	return Result{
		Reply:      out.reply,
		NewState:   state,
		Context:    next.Context,
		ToolCalls:  calls,
		Confidence: out.confidence,
	}
}

type turn struct {
	reply      string
	toolCalls  []string
	confidence float64
}

// respond generates the first-pass reply and, for tool-eligible intents with
// a complete context, runs the quote pipeline and a second pass over its
// summary. The pipeline outcome is cached on next.
func (c *Concierge) respond(ctx context.Context, message, role string, route intent.Route, next *conversation.Record) (turn, error) {
	req := ai.Request{Message: message, Context: next.Context, Route: route, Role: role}
	first, err := c.generator.Generate(ctx, req)
	if err != nil {
		return turn{}, fmt.Errorf("first pass: %w", err)
	}
	if first == nil {
		return turn{}, errors.New("first pass: empty response")
	}
	if !route.Intent.ToolEligible() || !next.Context.HasAllRequired() {
		return turn{reply: first.Text, confidence: first.Confidence}, nil
	}

	q := c.pipeline.FullQuote(ctx, next.Context)
	next.Tools = conversation.CachedTools{Calls: q.ToolCalls, Quote: snapshot(&q), RanAt: c.now()}
	if !q.OK() {
		return turn{reply: q.ShortCircuit, toolCalls: q.ToolCalls, confidence: first.Confidence}, nil
	}

	req.PriorSummary = q.Summary()
	second, err := c.generator.Generate(ctx, req)
	if err != nil {
		return turn{}, fmt.Errorf("second pass: %w", err)
	}
	if second == nil {
		return turn{}, errors.New("second pass: empty response")
	}
	reply := second.Text
	if win, ok := q.Winner(); ok && !strings.Contains(reply, types.FormatGBP(win.Total)) {
		// Keep the quoted figures in front of the user whatever the backend wrote.
		reply = q.Summary() + " " + reply
	}
	return turn{reply: reply, toolCalls: q.ToolCalls, confidence: second.Confidence}, nil
}

func (c *Concierge) load(ctx context.Context, id types.ID, now time.Time) (*conversation.Record, error) {
	rec, err := c.store.Get(ctx, id)
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		return conversation.NewRecord(id, now), nil
	case err != nil:
		return nil, err
	}
	return rec, nil
}

func (c *Concierge) handOff(q *conversation.QuoteSnapshot) string {
	return fmt.Sprintf("Great, I'm passing this to the %s booking desk: %s with a %s at %s. "+
		"A broker will confirm crew, slots and payment with you shortly. Is there anything else I can help with?",
		c.brand, q.OperatorName, q.Aircraft, types.FormatGBP(q.PriceGBP))
}

// Open stores an empty idle conversation under a fresh id.
func (c *Concierge) Open(ctx context.Context) (types.ID, error) {
	id := types.ID(uuid.NewString())
	if err := c.store.Put(ctx, conversation.NewRecord(id, c.now())); err != nil {
		return "", fmt.Errorf("open conversation: %w", err)
	}
	return id, nil
}

// History returns a copy of the stored record.
func (c *Concierge) History(ctx context.Context, id types.ID) (*conversation.Record, bool) {
	rec, err := c.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, conversation.ErrNotFound) {
			c.logger.Error("read conversation", zap.String("conversation_id", string(id)), zap.Error(err))
		}
		return nil, false
	}
	return rec, true
}

// Clear drops the conversation. Unknown ids are ignored.
func (c *Concierge) Clear(ctx context.Context, id types.ID) {
	unlock := c.store.Lock(id)
	defer unlock()
	if err := c.store.Delete(ctx, id); err != nil && !errors.Is(err, conversation.ErrNotFound) {
		c.logger.Error("delete conversation", zap.String("conversation_id", string(id)), zap.Error(err))
	}
}

func booking(id types.ID, role string, rec *conversation.Record, now time.Time) handoff.Booking {
	q := rec.Tools.Quote
	return handoff.Booking{
		ConversationID: id,
		OperatorID:     q.OperatorID,
		OperatorName:   q.OperatorName,
		Aircraft:       q.Aircraft,
		PriceGBP:       q.PriceGBP,
		Trip:           rec.Context,
		Role:           role,
		ConfirmedAt:    now,
	}
}

func snapshot(q *tools.Quote) *conversation.QuoteSnapshot {
	win, ok := q.Winner()
	if !ok {
		return nil
	}
	return &conversation.QuoteSnapshot{
		OperatorID:   win.OperatorID,
		OperatorName: q.WinnerName(),
		Aircraft:     win.AircraftType,
		PriceGBP:     win.Total,
		Note:         q.Match.Note,
		Alternatives: q.Alternatives(),
	}
}

func errorResult(rec *conversation.Record) Result {
	res := Result{
		Reply:      ErrorReply,
		NewState:   conversation.StateIdle,
		ToolCalls:  []string{},
		Confidence: errorConfidence,
	}
	if rec != nil {
		res.NewState = rec.State
		res.Context = rec.Context
	}
	return res
}
