package ai

import (
	"fmt"
	"strings"

	"charterdesk/internal/types"
)

var fieldLabels = map[string]string{
	types.FieldAircraft:    "aircraft type",
	types.FieldOrigin:      "departure airport (ICAO)",
	types.FieldDestination: "arrival airport (ICAO)",
	types.FieldDate:        "travel date",
	types.FieldPax:         "number of passengers",
	types.FieldBudget:      "budget in GBP",
}

// MissingList renders missing field names for a sentence:
// "the aircraft type, travel date and budget in GBP".
func MissingList(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, f := range missing {
		if l, ok := fieldLabels[f]; ok {
			labels = append(labels, l)
		} else {
			labels = append(labels, f)
		}
	}
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return "the " + labels[0]
	}
	return "the " + strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}

// Recap renders the known context in one line.
func Recap(c types.AviationContext) string {
	if c.IsEmpty() {
		return "no trip details yet"
	}
	var parts []string
	if c.Aircraft != "" {
		parts = append(parts, c.Aircraft)
	}
	switch {
	case c.Origin != "" && c.Destination != "":
		parts = append(parts, fmt.Sprintf("%s to %s", c.Origin, c.Destination))
	case c.Origin != "":
		parts = append(parts, "from "+c.Origin)
	case c.Destination != "":
		parts = append(parts, "to "+c.Destination)
	}
	if c.Date != "" {
		parts = append(parts, "on "+c.Date)
	}
	if c.Pax > 0 {
		parts = append(parts, fmt.Sprintf("%d passengers", c.Pax))
	}
	if c.BudgetGBP > 0 {
		parts = append(parts, "budget "+types.FormatGBP(c.BudgetGBP))
	}
	if c.Bags > 0 {
		parts = append(parts, fmt.Sprintf("%d bags", c.Bags))
	}
	if c.CabinPreference != "" {
		parts = append(parts, c.CabinPreference+" cabin")
	}
	if c.Flexibility != "" {
		parts = append(parts, c.Flexibility)
	}
	return strings.Join(parts, ", ")
}

// BuildPrompt assembles the persona instructions, the known request and the
// user message into one prompt.
func BuildPrompt(brand string, req Request) string {
	if brand == "" {
		brand = "JetLink"
	}
	role := req.Role
	if role == "" {
		role = "broker"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `Role: You are the %s charter concierge speaking with a %s terminal user.
Rules:
- Reply in two to four sentences, in British English.
- Quote prices in GBP with a £ sign. Never invent prices or operators.
- Never share operator contact details or other users' activity.
- Keep every booking on the %s platform.
- End with one clear yes/no question about the next step.
`, brand, role, brand)

	fmt.Fprintf(&b, "\nIntent: %s\n", req.Route.Intent)
	fmt.Fprintf(&b, "Known request: %s\n", Recap(req.Context))
	if missing := req.Context.Missing(); len(missing) > 0 {
		fmt.Fprintf(&b, "Still needed: %s\n", MissingList(missing))
	}
	if req.PriorSummary != "" {
		fmt.Fprintf(&b, "Tool results: %s\n", req.PriorSummary)
	}
	fmt.Fprintf(&b, "\nUser: %s\nConcierge:", req.Message)
	return b.String()
}
