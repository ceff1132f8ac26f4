// README: Full-quote pipeline; availability, concurrent pricing, match, operator.
package tools

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"charterdesk/internal/modules/availability"
	"charterdesk/internal/modules/matching"
	"charterdesk/internal/modules/operator"
	"charterdesk/internal/modules/pricing"
	"charterdesk/internal/types"
)

// Lines used when a stage yields nothing usable.
const (
	LineNoAvailability = "I could not find suitable availability right now. Shall I expand to adjacent bases or try another date?"
	LinePricingFailed  = "Pricing failed. Do you want me to request manual quotes from the operators?"
	LineMatchFailed    = "Price match failed. Do you want me to present raw options instead?"
)

// topCandidates is how many availability results get priced.
const topCandidates = 3

type Quote struct {
	Items     []availability.Item `json:"items"`
	Estimates []pricing.Estimate  `json:"estimates"`
	Match     *matching.Result    `json:"match,omitempty"`
	Operator  *operator.Profile   `json:"operator,omitempty"`
	ToolCalls []string            `json:"tool_calls"`
	// ShortCircuit is set when a stage failed; it is the reply line.
	ShortCircuit string `json:"short_circuit,omitempty"`
}

func (q *Quote) OK() bool {
	return q.ShortCircuit == "" && q.Match != nil
}

// Winner is the estimate price_match picked: the best operator at the
// matched price, since one operator can have several priced listings.
func (q *Quote) Winner() (pricing.Estimate, bool) {
	if q.Match == nil {
		return pricing.Estimate{}, false
	}
	best := q.Match.Best()
	for _, e := range q.Estimates {
		if e.OperatorID == q.Match.BestOperatorID && e.Total == best.PriceGBP {
			return e, true
		}
	}
	return pricing.Estimate{}, false
}

// WinnerName falls back to the operator id when the profile lookup failed.
func (q *Quote) WinnerName() string {
	if q.Operator != nil && q.Operator.Name != "" {
		return q.Operator.Name
	}
	if q.Match != nil {
		return string(q.Match.BestOperatorID)
	}
	return ""
}

// Alternatives are the prices of every ranked candidate after the best.
func (q *Quote) Alternatives() []int64 {
	if q.Match == nil || len(q.Match.Rank) < 2 {
		return nil
	}
	out := make([]int64, 0, len(q.Match.Rank)-1)
	for _, r := range q.Match.Rank[1:] {
		out = append(out, r.PriceGBP)
	}
	return out
}

// Summary is the short textual account of the tool outcomes handed to the
// second generation pass.
func (q *Quote) Summary() string {
	if q.ShortCircuit != "" {
		return q.ShortCircuit
	}
	win, ok := q.Winner()
	if !ok {
		return LineMatchFailed
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d available aircraft and priced %d. ", len(q.Items), len(q.Estimates))
	fmt.Fprintf(&b, "Best option: %s with a %s at %s (%s).",
		q.WinnerName(), win.AircraftType, types.FormatGBP(win.Total), q.Match.Note)
	if q.Operator != nil && q.Operator.SafetyNotes != "" {
		fmt.Fprintf(&b, " Safety: %s.", q.Operator.SafetyNotes)
	}
	if alts := q.Alternatives(); len(alts) > 0 {
		parts := make([]string, len(alts))
		for i, a := range alts {
			parts[i] = types.FormatGBP(a)
		}
		fmt.Fprintf(&b, " Alternatives: %s.", strings.Join(parts, ", "))
	}
	return b.String()
}

type Pipeline struct {
	tools *Toolbox
}

func NewPipeline(tb *Toolbox) *Pipeline {
	return &Pipeline{tools: tb}
}

// FullQuote runs the tools for a complete context. It never fails; a stage
// with no usable output sets ShortCircuit.
func (p *Pipeline) FullQuote(ctx context.Context, ac types.AviationContext) Quote {
	q := Quote{ToolCalls: []string{NameAvailability}}

	avail := p.tools.GetAircraftAvailability(ctx, AvailabilityArgs{
		AircraftType: ac.Aircraft,
		Origin:       ac.Origin,
		Destination:  ac.Destination,
		DepartDate:   ac.Date,
		Pax:          ac.Pax,
		BudgetGBP:    ac.BudgetGBP,
	})
	if !avail.OK || len(avail.Data) == 0 {
		q.ShortCircuit = LineNoAvailability
		return q
	}
	q.Items = avail.Data
	top := q.Items
	if len(top) > topCandidates {
		top = top[:topCandidates]
	}

	priced := make([]Result[pricing.Estimate], len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range top {
		g.Go(func() error {
			priced[i] = p.tools.PriceEstimate(gctx, PriceArgs{
				OperatorID:   item.OperatorID,
				AircraftType: item.AircraftType,
				Origin:       ac.Origin,
				Destination:  ac.Destination,
				DepartDate:   ac.Date,
				Pax:          ac.Pax,
			})
			return nil
		})
	}
	_ = g.Wait()

	candidates := make([]matching.Candidate, 0, len(priced))
	for _, r := range priced {
		q.ToolCalls = append(q.ToolCalls, NamePriceEstimate)
		if !r.OK {
			continue
		}
		q.Estimates = append(q.Estimates, r.Data)
		candidates = append(candidates, matching.Candidate{OperatorID: r.Data.OperatorID, EstPriceGBP: r.Data.Total})
	}
	if len(candidates) == 0 {
		q.ShortCircuit = LinePricingFailed
		return q
	}

	q.ToolCalls = append(q.ToolCalls, NamePriceMatch)
	match := p.tools.PriceMatch(ctx, MatchArgs{
		Candidates:      candidates,
		TargetBudgetGBP: ac.BudgetGBP,
		TieBreak:        matching.TieBreakHomeBaseFit,
	})
	if !match.OK {
		q.ShortCircuit = LineMatchFailed
		return q
	}
	q.Match = &match.Data

	q.ToolCalls = append(q.ToolCalls, NameOperatorProfile)
	if prof := p.tools.GetOperatorProfile(ctx, OperatorArgs{OperatorID: match.Data.BestOperatorID}); prof.OK {
		q.Operator = &prof.Data
	}
	return q
}
