// README: Charter price estimate and its fixed components.
package pricing

import "charterdesk/internal/types"

// Fixed add-ons in GBP.
const (
	HandlingFeeGBP    int64 = 2_500
	PlatformMarginGBP int64 = 3_000
)

type Extra string

const (
	ExtraDeIce    Extra = "de_ice"
	ExtraWifi     Extra = "wifi"
	ExtraCatering Extra = "catering"
)

var extraPrices = map[Extra]int64{
	ExtraDeIce:    1_200,
	ExtraWifi:     450,
	ExtraCatering: 900,
}

type Extras struct {
	DeIce    bool `json:"de_ice"`
	Wifi     bool `json:"wifi"`
	Catering bool `json:"catering"`
}

func (e Extras) Total() int64 {
	var total int64
	if e.DeIce {
		total += extraPrices[ExtraDeIce]
	}
	if e.Wifi {
		total += extraPrices[ExtraWifi]
	}
	if e.Catering {
		total += extraPrices[ExtraCatering]
	}
	return total
}

type Request struct {
	OperatorID   types.ID
	AircraftType string
	Origin       string
	Destination  string
	Date         string
	Pax          int
	Extras       Extras
}

type Breakdown struct {
	Flight     int64 `json:"flight"`
	Reposition int64 `json:"reposition"`
	Fees       int64 `json:"fees"`
	Margin     int64 `json:"margin"`
}

type Estimate struct {
	OperatorID   types.ID  `json:"operator_id"`
	AircraftType string    `json:"aircraft_type"`
	Total        int64     `json:"total_gbp"`
	Currency     string    `json:"currency"`
	Breakdown    Breakdown `json:"breakdown"`
}
