// README: Accumulating flight-request context extracted from chat turns.
package types

// Required field names, in the order they are asked for.
const (
	FieldAircraft    = "aircraft"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldDate        = "date"
	FieldPax         = "pax"
	FieldBudget      = "budget"
)

// RequiredFields is the fixed order used by Missing.
var RequiredFields = []string{
	FieldAircraft, FieldOrigin, FieldDestination, FieldDate, FieldPax, FieldBudget,
}

// AviationContext is a partial flight request. A zero field means unset.
type AviationContext struct {
	Aircraft        string `json:"aircraft,omitempty"`
	Origin          string `json:"origin,omitempty"`
	Destination     string `json:"destination,omitempty"`
	Date            string `json:"date,omitempty"`
	Pax             int    `json:"pax,omitempty"`
	BudgetGBP       int64  `json:"budget_gbp,omitempty"`
	Bags            int    `json:"bags,omitempty"`
	CabinPreference string `json:"cabin_preference,omitempty"`
	Flexibility     string `json:"flexibility,omitempty"`
}

// Merge overlays the set fields of partial onto c. Unset fields in partial
// never clear a value already held by c.
func (c AviationContext) Merge(partial AviationContext) AviationContext {
	out := c
	if partial.Aircraft != "" {
		out.Aircraft = partial.Aircraft
	}
	if partial.Origin != "" {
		out.Origin = partial.Origin
	}
	if partial.Destination != "" {
		out.Destination = partial.Destination
	}
	if partial.Date != "" {
		out.Date = partial.Date
	}
	if partial.Pax > 0 {
		out.Pax = partial.Pax
	}
	if partial.BudgetGBP > 0 {
		out.BudgetGBP = partial.BudgetGBP
	}
	if partial.Bags > 0 {
		out.Bags = partial.Bags
	}
	if partial.CabinPreference != "" {
		out.CabinPreference = partial.CabinPreference
	}
	if partial.Flexibility != "" {
		out.Flexibility = partial.Flexibility
	}
	return out
}

func (c AviationContext) has(field string) bool {
	switch field {
	case FieldAircraft:
		return c.Aircraft != ""
	case FieldOrigin:
		return c.Origin != ""
	case FieldDestination:
		return c.Destination != ""
	case FieldDate:
		return c.Date != ""
	case FieldPax:
		return c.Pax > 0
	case FieldBudget:
		return c.BudgetGBP > 0
	}
	return false
}

// HasAllRequired reports whether every tool-required field is set.
func (c AviationContext) HasAllRequired() bool {
	return len(c.Missing()) == 0
}

// Missing lists the unset required fields in RequiredFields order.
func (c AviationContext) Missing() []string {
	var out []string
	for _, f := range RequiredFields {
		if !c.has(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no field at all has been extracted.
func (c AviationContext) IsEmpty() bool {
	return c == AviationContext{}
}
