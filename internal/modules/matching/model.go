// README: Price-match candidates and ranked results.
package matching

import "charterdesk/internal/types"

// TieBreakHomeBaseFit gives the cheapest candidate a bonus for fitting the
// home base. It never changes which candidate is best.
const TieBreakHomeBaseFit = "home_base_fit"

const (
	NoteWithinBudget  = "Within budget"
	NoteNearestBudget = "Nearest to budget"
)

type Candidate struct {
	OperatorID  types.ID `json:"operator_id"`
	EstPriceGBP int64    `json:"est_price_gbp"`
}

type Ranked struct {
	OperatorID types.ID `json:"operator_id"`
	Score      int      `json:"score"`
	Note       string   `json:"note"`
	PriceGBP   int64    `json:"price_gbp"`
}

type Result struct {
	BestOperatorID types.ID `json:"best_operator_id"`
	Rank           []Ranked `json:"rank"`
	Note           string   `json:"note"`
}

// Best returns the ranked entry of the best candidate, which Match always
// places first. One operator may appear more than once in Rank.
func (r Result) Best() Ranked {
	if len(r.Rank) == 0 {
		return Ranked{}
	}
	return r.Rank[0]
}
