// README: Price matcher unit tests.
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() []Candidate {
	return []Candidate{
		{OperatorID: "op_a", EstPriceGBP: 37_000},
		{OperatorID: "op_b", EstPriceGBP: 33_000},
		{OperatorID: "op_c", EstPriceGBP: 42_500},
	}
}

func TestMatch_BestIsCheapestForEveryTieBreak(t *testing.T) {
	for _, tb := range []string{"", TieBreakHomeBaseFit, "fastest", "rating"} {
		for _, budget := range []int64{0, 35_000, 100_000} {
			res, err := Match(scenario(), budget, tb)
			require.NoError(t, err)
			assert.Equal(t, "op_b", string(res.BestOperatorID), "tie_break=%q budget=%d", tb, budget)
			assert.Equal(t, int64(33_000), res.Best().PriceGBP)
		}
	}
}

func TestMatch_Scores(t *testing.T) {
	res, err := Match(scenario(), 40_000, TieBreakHomeBaseFit)
	require.NoError(t, err)
	require.Len(t, res.Rank, 3)

	assert.Equal(t, Ranked{OperatorID: "op_b", Score: 130, Note: NoteWithinBudget, PriceGBP: 33_000}, res.Rank[0])
	assert.Equal(t, Ranked{OperatorID: "op_a", Score: 110, Note: NoteWithinBudget, PriceGBP: 37_000}, res.Rank[1])
	assert.Equal(t, Ranked{OperatorID: "op_c", Score: 80, Note: NoteNearestBudget, PriceGBP: 42_500}, res.Rank[2])
	assert.Equal(t, NoteWithinBudget, res.Note)
}

func TestMatch_OverBudget(t *testing.T) {
	res, err := Match(scenario(), 30_000, "")
	require.NoError(t, err)
	assert.Equal(t, NoteNearestBudget, res.Note)
	assert.Equal(t, 100, res.Rank[0].Score)
}

func TestMatch_Empty(t *testing.T) {
	_, err := Match(nil, 50_000, "")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestMatch_DoesNotMutateInput(t *testing.T) {
	in := scenario()
	_, err := Match(in, 50_000, "")
	require.NoError(t, err)
	assert.Equal(t, "op_a", string(in[0].OperatorID))
}
