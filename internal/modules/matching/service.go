// README: Price matcher ranks priced candidates against the target budget.
package matching

import (
	"errors"
	"sort"
)

var ErrNoCandidates = errors.New("no candidates to match")

// Match ranks candidates by ascending price. The cheapest is always best;
// scores and tie-break only inform the ranking notes.
func Match(candidates []Candidate, budgetGBP int64, tieBreak string) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}
	sorted := append([]Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EstPriceGBP < sorted[j].EstPriceGBP })

	rank := make([]Ranked, len(sorted))
	for i, c := range sorted {
		within := c.EstPriceGBP <= budgetGBP
		score := 100 - 10*i
		if within {
			score += 20
		}
		if i == 0 && tieBreak == TieBreakHomeBaseFit {
			score += 10
		}
		rank[i] = Ranked{
			OperatorID: c.OperatorID,
			Score:      score,
			Note:       budgetNote(within),
			PriceGBP:   c.EstPriceGBP,
		}
	}
	return Result{
		BestOperatorID: sorted[0].OperatorID,
		Rank:           rank,
		Note:           budgetNote(sorted[0].EstPriceGBP <= budgetGBP),
	}, nil
}

func budgetNote(within bool) string {
	if within {
		return NoteWithinBudget
	}
	return NoteNearestBudget
}
