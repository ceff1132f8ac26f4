// README: Aircraft type specifications.
package fleet

type Category string

const (
	CategoryLight          Category = "light"
	CategoryMidsize        Category = "midsize"
	CategorySuperMidsize   Category = "super_midsize"
	CategoryHeavy          Category = "heavy"
	CategoryUltraLongRange Category = "ultra_long_range"
)

type Specs struct {
	Type          string   `json:"type"`
	Manufacturer  string   `json:"manufacturer"`
	Category      Category `json:"category"`
	MaxPax        int      `json:"max_pax"`
	RangeNm       int      `json:"range_nm"`
	CruiseKts     int      `json:"cruise_kts"`
	CabinHeightFt float64  `json:"cabin_height_ft"`
	BaggageCuFt   int      `json:"baggage_cu_ft"`
}
