// README: Aircraft listings and availability results.
package availability

import (
	"charterdesk/internal/types"
)

// Listing is one aircraft an operator offers from a base.
type Listing struct {
	ID           types.ID `json:"id"`
	OperatorID   types.ID `json:"operator_id"`
	OperatorName string   `json:"operator_name"`
	AircraftType string   `json:"aircraft_type"`
	Tail         string   `json:"tail,omitempty"`
	BaseICAO     string   `json:"base_icao"`
}

// Nearby is a listing with its reposition distance to the requested origin.
type Nearby struct {
	Listing
	DistanceNm float64
}

type Query struct {
	AircraftType string
	Origin       string
	Destination  string
	Date         string
	Pax          int
}

type Item struct {
	OperatorID     types.ID `json:"operator_id"`
	OperatorName   string   `json:"operator_name"`
	AircraftType   string   `json:"aircraft_type"`
	Tail           string   `json:"tail,omitempty"`
	BaseICAO       string   `json:"base_icao"`
	RepositionNm   float64  `json:"reposition_nm"`
	BlockTimeHours float64  `json:"block_time_hours"`
	Notes          string   `json:"notes,omitempty"`
}

const (
	// DefaultMaxRepositionNm is how far an aircraft may be from the origin.
	DefaultMaxRepositionNm = 150.0
	// taxiAllowanceHours covers taxi, climb and descent on top of cruise.
	taxiAllowanceHours = 0.4
	defaultCruiseKts   = 450
)
