// README: Pricing service computes charter estimates.
package pricing

import (
	"context"

	"charterdesk/internal/types"
)

type Service struct {
	store RateStore
}

func NewService(store RateStore) *Service {
	return &Service{store: store}
}

// Estimate totals base rate, the operator's reposition fee, handling,
// platform margin and any extras. Extras are reported under fees.
func (s *Service) Estimate(ctx context.Context, req Request) (Estimate, error) {
	base, err := s.store.BaseRate(ctx, req.AircraftType)
	if err != nil {
		return Estimate{}, err
	}
	reposition, err := s.store.RepositionFee(ctx, req.OperatorID)
	if err != nil {
		return Estimate{}, err
	}
	b := Breakdown{
		Flight:     base,
		Reposition: reposition,
		Fees:       HandlingFeeGBP + req.Extras.Total(),
		Margin:     PlatformMarginGBP,
	}
	return Estimate{
		OperatorID:   req.OperatorID,
		AircraftType: req.AircraftType,
		Total:        b.Flight + b.Reposition + b.Fees + b.Margin,
		Currency:     types.CurrencyGBP,
		Breakdown:    b,
	}, nil
}
