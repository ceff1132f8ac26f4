// README: Demo operator network used by the in-memory stores and the seed command.
package fixtures

import (
	"charterdesk/internal/modules/availability"
	"charterdesk/internal/modules/fleet"
	"charterdesk/internal/modules/operator"
	"charterdesk/internal/types"
)

const (
	OpSkyBridge types.ID = "op_skybridge"
	OpThames    types.ID = "op_thames"
	OpNorthcote types.ID = "op_northcote"
	OpAlbion    types.ID = "op_albion"
	OpSeine     types.ID = "op_seine"
	OpLeman     types.ID = "op_leman"
	OpHudson    types.ID = "op_hudson"
)

func Operators() []operator.Profile {
	return []operator.Profile{
		{ID: OpSkyBridge, Name: "SkyBridge Aviation", HomeBases: []string{"EGLL", "EGLF"}, SafetyNotes: "ARGUS Platinum", TypicalTurnMinutes: 60, Contact: "charter@skybridge.example"},
		{ID: OpThames, Name: "Thames Executive Jets", HomeBases: []string{"EGLF"}, SafetyNotes: "Wyvern Wingman", TypicalTurnMinutes: 45, Contact: "+44 1252 555 0142"},
		{ID: OpNorthcote, Name: "Northcote Air", HomeBases: []string{"EGGW"}, TypicalTurnMinutes: 75, Contact: "ops@northcote.example"},
		{ID: OpAlbion, Name: "Albion Jet Charter", HomeBases: []string{"EGKB"}, SafetyNotes: "IS-BAO Stage 2", TypicalTurnMinutes: 50, Contact: "sales@albionjet.example"},
		{ID: OpSeine, Name: "Seine Aviation", HomeBases: []string{"LFPB"}, SafetyNotes: "ARGUS Gold", TypicalTurnMinutes: 60, Contact: "vols@seine.example"},
		{ID: OpLeman, Name: "Leman Jet", HomeBases: []string{"LSGG"}, TypicalTurnMinutes: 55, Contact: "ops@lemanjet.example"},
		{ID: OpHudson, Name: "Hudson Executive Air", HomeBases: []string{"KTEB"}, SafetyNotes: "ARGUS Platinum", TypicalTurnMinutes: 40, Contact: "+1 201 555 0199"},
	}
}

// Listings are ordered so that, from EGLL, the three Gulfstream G550s come
// back as SkyBridge (EGLL), Thames (EGLF), Northcote (EGGW).
func Listings() []availability.Listing {
	return []availability.Listing{
		{ID: "ls_sky_g550", OperatorID: OpSkyBridge, OperatorName: "SkyBridge Aviation", AircraftType: "Gulfstream G550", Tail: "G-SKYB", BaseICAO: "EGLL"},
		{ID: "ls_sky_g650", OperatorID: OpSkyBridge, OperatorName: "SkyBridge Aviation", AircraftType: "Gulfstream G650", Tail: "G-SKYC", BaseICAO: "EGLL"},
		{ID: "ls_thm_g550", OperatorID: OpThames, OperatorName: "Thames Executive Jets", AircraftType: "Gulfstream G550", Tail: "G-TMSA", BaseICAO: "EGLF"},
		{ID: "ls_thm_p300", OperatorID: OpThames, OperatorName: "Thames Executive Jets", AircraftType: "Embraer Phenom 300", Tail: "G-TMSP", BaseICAO: "EGLF"},
		{ID: "ls_nco_g550", OperatorID: OpNorthcote, OperatorName: "Northcote Air", AircraftType: "Gulfstream G550", Tail: "G-NCOA", BaseICAO: "EGGW"},
		{ID: "ls_nco_cl35", OperatorID: OpNorthcote, OperatorName: "Northcote Air", AircraftType: "Bombardier Challenger 350", Tail: "G-NCOC", BaseICAO: "EGGW"},
		{ID: "ls_nco_h800", OperatorID: OpNorthcote, OperatorName: "Northcote Air", AircraftType: "Hawker 800XP", Tail: "G-NCOH", BaseICAO: "EGGW"},
		{ID: "ls_alb_g650", OperatorID: OpAlbion, OperatorName: "Albion Jet Charter", AircraftType: "Gulfstream G650", Tail: "G-ALBG", BaseICAO: "EGKB"},
		{ID: "ls_alb_xls", OperatorID: OpAlbion, OperatorName: "Albion Jet Charter", AircraftType: "Cessna Citation XLS+", Tail: "G-ALBX", BaseICAO: "EGKB"},
		{ID: "ls_sei_f7x", OperatorID: OpSeine, OperatorName: "Seine Aviation", AircraftType: "Dassault Falcon 7X", Tail: "F-HSEI", BaseICAO: "LFPB"},
		{ID: "ls_lem_g7500", OperatorID: OpLeman, OperatorName: "Leman Jet", AircraftType: "Bombardier Global 7500", Tail: "HB-JLM", BaseICAO: "LSGG"},
		{ID: "ls_hud_g650", OperatorID: OpHudson, OperatorName: "Hudson Executive Air", AircraftType: "Gulfstream G650", Tail: "N650HX", BaseICAO: "KTEB"},
	}
}

func Specs() []fleet.Specs {
	return []fleet.Specs{
		{Type: "Gulfstream G550", Manufacturer: "Gulfstream", Category: fleet.CategoryUltraLongRange, MaxPax: 16, RangeNm: 6750, CruiseKts: 488, CabinHeightFt: 6.2, BaggageCuFt: 226},
		{Type: "Gulfstream G650", Manufacturer: "Gulfstream", Category: fleet.CategoryUltraLongRange, MaxPax: 19, RangeNm: 7000, CruiseKts: 516, CabinHeightFt: 6.3, BaggageCuFt: 195},
		{Type: "Dassault Falcon 7X", Manufacturer: "Dassault", Category: fleet.CategoryHeavy, MaxPax: 16, RangeNm: 5950, CruiseKts: 459, CabinHeightFt: 6.2, BaggageCuFt: 140},
		{Type: "Bombardier Global 7500", Manufacturer: "Bombardier", Category: fleet.CategoryUltraLongRange, MaxPax: 19, RangeNm: 7700, CruiseKts: 516, CabinHeightFt: 6.2, BaggageCuFt: 195},
		{Type: "Bombardier Challenger 350", Manufacturer: "Bombardier", Category: fleet.CategorySuperMidsize, MaxPax: 10, RangeNm: 3200, CruiseKts: 448, CabinHeightFt: 6.0, BaggageCuFt: 106},
		{Type: "Cessna Citation XLS+", Manufacturer: "Cessna", Category: fleet.CategoryMidsize, MaxPax: 9, RangeNm: 2100, CruiseKts: 441, CabinHeightFt: 5.7, BaggageCuFt: 90},
		{Type: "Embraer Phenom 300", Manufacturer: "Embraer", Category: fleet.CategoryLight, MaxPax: 8, RangeNm: 2010, CruiseKts: 453, CabinHeightFt: 4.9, BaggageCuFt: 84},
		{Type: "Hawker 800XP", Manufacturer: "Hawker", Category: fleet.CategoryMidsize, MaxPax: 8, RangeNm: 2540, CruiseKts: 447, CabinHeightFt: 5.8, BaggageCuFt: 50},
	}
}

// Rates is the GBP base rate per aircraft type. The Hawker has no rate, so
// pricing it fails.
func Rates() map[string]int64 {
	return map[string]int64{
		"Gulfstream G550":           25_000,
		"Gulfstream G650":           28_000,
		"Dassault Falcon 7X":        24_000,
		"Bombardier Global 7500":    32_000,
		"Bombardier Challenger 350": 14_000,
		"Cessna Citation XLS+":      9_000,
		"Embraer Phenom 300":        7_000,
	}
}

func RepositionFees() map[types.ID]int64 {
	return map[types.ID]int64{
		OpSkyBridge: 6_500,
		OpThames:    2_500,
		OpNorthcote: 12_000,
		OpAlbion:    4_000,
		OpSeine:     5_000,
		OpLeman:     7_000,
		OpHudson:    8_000,
	}
}
