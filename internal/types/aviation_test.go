package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_LastWriteWinsPerField(t *testing.T) {
	turn1 := AviationContext{}.Merge(AviationContext{Aircraft: "G650"})
	turn2 := turn1.Merge(AviationContext{Destination: "KJFK"})

	assert.Equal(t, "G650", turn2.Aircraft)
	assert.Equal(t, "KJFK", turn2.Destination)

	turn3 := turn2.Merge(AviationContext{Aircraft: "Falcon 7X", Pax: 4})
	assert.Equal(t, "Falcon 7X", turn3.Aircraft)
	assert.Equal(t, "KJFK", turn3.Destination)
	assert.Equal(t, 4, turn3.Pax)
}

func TestMerge_EmptyValuesDoNotClear(t *testing.T) {
	base := AviationContext{Aircraft: "G550", Pax: 6, BudgetGBP: 40000}
	got := base.Merge(AviationContext{})
	assert.Equal(t, base, got)
}

func TestMissing_FixedOrder(t *testing.T) {
	cases := []struct {
		name string
		ctx  AviationContext
		want []string
	}{
		{"empty", AviationContext{}, []string{"aircraft", "origin", "destination", "date", "pax", "budget"}},
		{"aircraft only", AviationContext{Aircraft: "G650"}, []string{"origin", "destination", "date", "pax", "budget"}},
		{"missing pax and budget", AviationContext{Aircraft: "G650", Origin: "EGLL", Destination: "KJFK", Date: "2025-06-01"}, []string{"pax", "budget"}},
		{"optional fields ignored", AviationContext{Bags: 3, CabinPreference: "quiet"}, []string{"aircraft", "origin", "destination", "date", "pax", "budget"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.ctx.Missing())
			assert.False(t, tc.ctx.HasAllRequired())
		})
	}
}

func TestHasAllRequired(t *testing.T) {
	full := AviationContext{Aircraft: "G650", Origin: "EGLL", Destination: "KJFK", Date: "2025-06-01", Pax: 8, BudgetGBP: 50000}
	assert.True(t, full.HasAllRequired())
	assert.Empty(t, full.Missing())
}

func TestFormatGBP(t *testing.T) {
	cases := map[int64]string{
		0:       "£0",
		950:     "£950",
		1000:    "£1,000",
		37000:   "£37,000",
		1250000: "£1,250,000",
		-4200:   "-£4,200",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatGBP(in))
	}
	assert.Equal(t, "£42,500", GBP(42500).String())
}
