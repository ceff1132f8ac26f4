package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charterdesk/internal/fixtures"
	"charterdesk/internal/modules/matching"
	"charterdesk/internal/modules/operator"
	"charterdesk/internal/modules/pricing"
	"charterdesk/internal/types"
)

func g550Context() types.AviationContext {
	return types.AviationContext{
		Aircraft: "Gulfstream G550", Origin: "EGLL", Destination: "LFMN",
		Date: "2025-07-01", Pax: 6, BudgetGBP: 40_000,
	}
}

func TestFullQuoteG550(t *testing.T) {
	q := NewPipeline(newTestToolbox(t, nil)).FullQuote(context.Background(), g550Context())
	require.True(t, q.OK(), q.ShortCircuit)

	assert.Equal(t, []string{
		NameAvailability, NamePriceEstimate, NamePriceEstimate, NamePriceEstimate, NamePriceMatch, NameOperatorProfile,
	}, q.ToolCalls)

	require.Len(t, q.Estimates, 3)
	totals := []int64{q.Estimates[0].Total, q.Estimates[1].Total, q.Estimates[2].Total}
	assert.Equal(t, []int64{37_000, 33_000, 42_500}, totals)

	assert.Equal(t, fixtures.OpThames, q.Match.BestOperatorID)
	win, ok := q.Winner()
	require.True(t, ok)
	assert.Equal(t, int64(33_000), win.Total)
	assert.Equal(t, []int64{37_000, 42_500}, q.Alternatives())

	summary := q.Summary()
	assert.Contains(t, summary, "Thames Executive Jets")
	assert.Contains(t, summary, "£33,000")
	assert.Contains(t, summary, "£37,000")
	assert.Contains(t, summary, "£42,500")
}

func TestFullQuoteNoAvailability(t *testing.T) {
	ac := g550Context()
	ac.Aircraft = "Learjet 75"
	q := NewPipeline(newTestToolbox(t, nil)).FullQuote(context.Background(), ac)
	assert.False(t, q.OK())
	assert.Equal(t, LineNoAvailability, q.ShortCircuit)
	assert.Equal(t, LineNoAvailability, q.Summary())
	assert.Equal(t, []string{NameAvailability}, q.ToolCalls)
}

func TestFullQuotePricingFailed(t *testing.T) {
	ac := g550Context()
	ac.Aircraft = "Hawker"
	q := NewPipeline(newTestToolbox(t, nil)).FullQuote(context.Background(), ac)
	assert.Equal(t, LinePricingFailed, q.ShortCircuit)
	assert.Equal(t, []string{NameAvailability, NamePriceEstimate}, q.ToolCalls)
}

func TestFullQuoteOperatorLookupFailure(t *testing.T) {
	// No profiles at all: the quote still completes and names the winner by id.
	q := NewPipeline(newTestToolbox(t, operator.NewMemoryStore())).FullQuote(context.Background(), g550Context())
	require.True(t, q.OK())
	assert.Nil(t, q.Operator)
	assert.Equal(t, string(fixtures.OpThames), q.WinnerName())
	assert.Contains(t, q.Summary(), string(fixtures.OpThames))
}

func TestFullQuoteDropsFailedEstimates(t *testing.T) {
	tb := newTestToolbox(t, nil)
	// Challenger 350 and Hawker both sit at EGGW; only the Challenger has a rate.
	ac := g550Context()
	ac.Origin = "EGGW"
	ac.Aircraft = "e"
	q := NewPipeline(tb).FullQuote(context.Background(), ac)
	require.True(t, q.OK(), q.ShortCircuit)
	assert.Len(t, q.ToolCalls, 1+3+2)
	for _, e := range q.Estimates {
		assert.NotEqual(t, "Hawker 800XP", e.AircraftType)
	}
}

func TestWinnerPicksMatchedListingOfSameOperator(t *testing.T) {
	estimates := []pricing.Estimate{
		{OperatorID: "op_a", AircraftType: "Gulfstream G550", Total: 41_000},
		{OperatorID: "op_b", AircraftType: "Gulfstream G550", Total: 38_000},
		{OperatorID: "op_a", AircraftType: "Gulfstream G450", Total: 34_000},
	}
	candidates := make([]matching.Candidate, len(estimates))
	for i, e := range estimates {
		candidates[i] = matching.Candidate{OperatorID: e.OperatorID, EstPriceGBP: e.Total}
	}
	res, err := matching.Match(candidates, 40_000, matching.TieBreakHomeBaseFit)
	require.NoError(t, err)

	q := Quote{Estimates: estimates, Match: &res}
	win, ok := q.Winner()
	require.True(t, ok)
	assert.Equal(t, types.ID("op_a"), win.OperatorID)
	assert.Equal(t, int64(34_000), win.Total)
	assert.Equal(t, "Gulfstream G450", win.AircraftType)
	assert.Contains(t, q.Summary(), "£34,000")
	assert.Equal(t, []int64{38_000, 41_000}, q.Alternatives())
}
