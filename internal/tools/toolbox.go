// README: Domain tools exposed to the orchestrator and the direct tool endpoint.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"charterdesk/internal/metrics"
	"charterdesk/internal/modules/availability"
	"charterdesk/internal/modules/compliance"
	"charterdesk/internal/modules/fleet"
	"charterdesk/internal/modules/matching"
	"charterdesk/internal/modules/operator"
	"charterdesk/internal/modules/pricing"
	"charterdesk/internal/types"
)

const (
	NameAvailability    = "get_aircraft_availability"
	NamePriceEstimate   = "price_estimate"
	NamePriceMatch      = "price_match"
	NameOperatorProfile = "get_operator_profile"
	NameAircraftSpecs   = "get_aircraft_specs"
	NameSanctionsCheck  = "sanctions_check"
)

// Reasons reported in Result.Error.
const (
	ReasonNoRate           = "No rate for aircraft type"
	ReasonNoRepositionFee  = "No reposition fee for operator"
	ReasonNoCandidates     = "No candidates to match"
	ReasonOperatorNotFound = "Operator not found"
	ReasonTypeNotFound     = "Aircraft type not found"
	ReasonUnavailable      = "Tool unavailable"
	ReasonInternal         = "Internal tool error"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrBadArgs     = errors.New("invalid tool arguments")
)

type AvailabilityArgs struct {
	AircraftType string `json:"aircraft_type"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartDate   string `json:"depart_date"`
	Pax          int    `json:"pax"`
	BudgetGBP    int64  `json:"budget_gbp"`
}

type PriceArgs struct {
	OperatorID   types.ID       `json:"operator_id"`
	AircraftType string         `json:"aircraft_type"`
	Origin       string         `json:"origin"`
	Destination  string         `json:"destination"`
	DepartDate   string         `json:"depart_date"`
	Pax          int            `json:"pax"`
	Extras       pricing.Extras `json:"extras"`
}

type MatchArgs struct {
	Candidates      []matching.Candidate `json:"candidates"`
	TargetBudgetGBP int64                `json:"target_budget_gbp"`
	TieBreak        string               `json:"tie_break"`
}

type OperatorArgs struct {
	OperatorID types.ID `json:"operator_id"`
}

type SpecsArgs struct {
	AircraftType string `json:"aircraft_type"`
}

type SanctionsArgs struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Country string `json:"country"`
}

type Deps struct {
	Availability *availability.Service
	Pricing      *pricing.Service
	Operators    *operator.Service
	Fleet        *fleet.Catalogue
	Screener     *compliance.Screener
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

type Toolbox struct {
	availability *availability.Service
	pricing      *pricing.Service
	operators    *operator.Service
	fleet        *fleet.Catalogue
	screener     *compliance.Screener
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewToolbox(d Deps) *Toolbox {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toolbox{
		availability: d.Availability,
		pricing:      d.Pricing,
		operators:    d.Operators,
		fleet:        d.Fleet,
		screener:     d.Screener,
		metrics:      d.Metrics,
		logger:       logger,
	}
}

func (tb *Toolbox) GetAircraftAvailability(ctx context.Context, a AvailabilityArgs) Result[[]availability.Item] {
	return run(tb, NameAvailability, func() ([]availability.Item, error) {
		return tb.availability.Search(ctx, availability.Query{
			AircraftType: a.AircraftType,
			Origin:       a.Origin,
			Destination:  a.Destination,
			Date:         a.DepartDate,
			Pax:          a.Pax,
		})
	})
}

func (tb *Toolbox) PriceEstimate(ctx context.Context, a PriceArgs) Result[pricing.Estimate] {
	return run(tb, NamePriceEstimate, func() (pricing.Estimate, error) {
		return tb.pricing.Estimate(ctx, pricing.Request{
			OperatorID:   a.OperatorID,
			AircraftType: a.AircraftType,
			Origin:       a.Origin,
			Destination:  a.Destination,
			Date:         a.DepartDate,
			Pax:          a.Pax,
			Extras:       a.Extras,
		})
	})
}

func (tb *Toolbox) PriceMatch(_ context.Context, a MatchArgs) Result[matching.Result] {
	return run(tb, NamePriceMatch, func() (matching.Result, error) {
		return matching.Match(a.Candidates, a.TargetBudgetGBP, a.TieBreak)
	})
}

func (tb *Toolbox) GetOperatorProfile(ctx context.Context, a OperatorArgs) Result[operator.Profile] {
	return run(tb, NameOperatorProfile, func() (operator.Profile, error) {
		p, err := tb.operators.Profile(ctx, a.OperatorID)
		if err != nil {
			return operator.Profile{}, err
		}
		return *p, nil
	})
}

func (tb *Toolbox) GetAircraftSpecs(_ context.Context, a SpecsArgs) Result[fleet.Specs] {
	return run(tb, NameAircraftSpecs, func() (fleet.Specs, error) {
		return tb.fleet.Resolve(a.AircraftType)
	})
}

func (tb *Toolbox) SanctionsCheck(_ context.Context, a SanctionsArgs) Result[compliance.Screening] {
	return run(tb, NameSanctionsCheck, func() (compliance.Screening, error) {
		return tb.screener.Screen(a.Name, a.Company, a.Country), nil
	})
}

// Invoke decodes JSON arguments and calls the named tool. The error is only
// for an unknown tool or undecodable arguments; tool failures are in the
// returned Result.
func (tb *Toolbox) Invoke(ctx context.Context, name string, raw []byte) (any, error) {
	switch name {
	case NameAvailability:
		return invoke(raw, func(a AvailabilityArgs) any { return tb.GetAircraftAvailability(ctx, a) })
	case NamePriceEstimate:
		return invoke(raw, func(a PriceArgs) any { return tb.PriceEstimate(ctx, a) })
	case NamePriceMatch:
		return invoke(raw, func(a MatchArgs) any { return tb.PriceMatch(ctx, a) })
	case NameOperatorProfile:
		return invoke(raw, func(a OperatorArgs) any { return tb.GetOperatorProfile(ctx, a) })
	case NameAircraftSpecs:
		return invoke(raw, func(a SpecsArgs) any { return tb.GetAircraftSpecs(ctx, a) })
	case NameSanctionsCheck:
		return invoke(raw, func(a SanctionsArgs) any { return tb.SanctionsCheck(ctx, a) })
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// Names lists the tools Invoke accepts.
func Names() []string {
	return []string{NameAvailability, NamePriceEstimate, NamePriceMatch, NameOperatorProfile, NameAircraftSpecs, NameSanctionsCheck}
}

func invoke[A any](raw []byte, call func(A) any) (any, error) {
	var a A
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArgs, err)
		}
	}
	return call(a), nil
}

func run[T any](tb *Toolbox, name string, fn func() (T, error)) (res Result[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			tb.logger.Error("tool panicked", zap.String("tool", name), zap.Any("panic", r))
			res = Err[T](ReasonInternal)
		}
		tb.metrics.ToolCall(name, res.OK, time.Since(start))
	}()
	v, err := fn()
	if err != nil {
		tb.logger.Debug("tool failed", zap.String("tool", name), zap.Error(err))
		return Err[T](reason(err))
	}
	return Ok(v)
}

func reason(err error) string {
	switch {
	case errors.Is(err, pricing.ErrNoRate):
		return ReasonNoRate
	case errors.Is(err, pricing.ErrNoRepositionFee):
		return ReasonNoRepositionFee
	case errors.Is(err, matching.ErrNoCandidates):
		return ReasonNoCandidates
	case errors.Is(err, operator.ErrNotFound):
		return ReasonOperatorNotFound
	case errors.Is(err, fleet.ErrNotFound):
		return ReasonTypeNotFound
	}
	return ReasonUnavailable
}
