package intent

type Intent string

const (
	Reassure     Intent = "reassure"
	Intake       Intent = "intake"
	Pricing      Intent = "pricing"
	Availability Intent = "availability"
	Summary      Intent = "summary"
	Policy       Intent = "policy"
	Tools        Intent = "tools"
	General      Intent = "general"
)

func (i Intent) Valid() bool {
	switch i {
	case Reassure, Intake, Pricing, Availability, Summary, Policy, Tools, General:
		return true
	}
	return false
}

// ToolEligible reports whether the intent may trigger the full-quote pipeline.
func (i Intent) ToolEligible() bool {
	return i == Availability || i == Pricing || i == Tools
}

// Slot selects which generation model serves the turn.
type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotReasoning Slot = "reasoning"
	SlotSummary   Slot = "summary"
)

func (i Intent) Slot() Slot {
	switch i {
	case Availability, Pricing, Tools:
		return SlotReasoning
	case Summary, Policy:
		return SlotSummary
	}
	return SlotPrimary
}

func (i Intent) Confidence() float64 {
	switch i {
	case Reassure, Pricing, Availability:
		return 0.95
	case General:
		return 0.6
	}
	return 0.8
}

type Route struct {
	Intent     Intent  `json:"intent"`
	Slot       Slot    `json:"slot"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}
