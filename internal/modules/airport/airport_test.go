package airport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	a, ok := Lookup("egll")
	require.True(t, ok)
	assert.Equal(t, "London Heathrow", a.Name)

	_, ok = Lookup("ZZZZ")
	assert.False(t, ok)
	assert.True(t, IsKnown(" KJFK "))
}

func TestDistanceBetweenNm(t *testing.T) {
	nm, ok := DistanceBetweenNm("EGLL", "KJFK")
	require.True(t, ok)
	// Heathrow to JFK is roughly 2,990 nm great-circle.
	assert.InDelta(t, 2990, nm, 40)

	nm, ok = DistanceBetweenNm("EGLL", "EGLF")
	require.True(t, ok)
	assert.Less(t, nm, 20.0)

	_, ok = DistanceBetweenNm("EGLL", "NOPE")
	assert.False(t, ok)
}

func TestSortByDistance(t *testing.T) {
	type item struct {
		name string
		d    float64
	}
	items := []item{{"c", 30}, {"a", 10}, {"b", 20}, {"a2", 10}}
	SortByDistance(items, func(i item) float64 { return i.d })
	assert.Equal(t, []string{"a", "a2", "b", "c"}, []string{items[0].name, items[1].name, items[2].name, items[3].name})
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}
}
