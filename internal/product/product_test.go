package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/money"
)

func TestAvailability(t *testing.T) {
	testCases := []struct {
		available int
		label     string
		low       bool
	}{
		{available: 0, label: "Out of Stock"},
		{available: 1, label: "Only 1 left", low: true},
		{available: 5, label: "Only 5 left", low: true},
		{available: 9, label: "Only 9 left"},
		{available: 10, label: "Available"},
		{available: 250, label: "Available"},
	}

	for _, tc := range testCases {
		p := Product{Available: tc.available}
		assert.Equal(t, tc.label, p.Availability(), "available=%d", tc.available)
		assert.Equal(t, tc.low, p.LowStock(), "available=%d", tc.available)
	}
}

func TestMatchesAndFilter(t *testing.T) {
	ps := []Product{
		{ID: 1, Name: "Coca-Cola", Description: "Classic soft drink"},
		{ID: 2, Name: "Croissant", Description: "Buttery French pastry"},
		{ID: 3, Name: "Banana", Description: "Ripe and sweet"},
	}

	assert.Len(t, Filter(ps, ""), 3)
	assert.Equal(t, []Product{ps[0]}, Filter(ps, "COCA"))
	assert.Equal(t, []Product{ps[1]}, Filter(ps, "pastry"))
	assert.Empty(t, Filter(ps, "kiwi"))
}

func TestInCategory(t *testing.T) {
	p := Product{Type: "drinks"}
	assert.True(t, p.InCategory(""))
	assert.True(t, p.InCategory(CategoryAll))
	assert.True(t, p.InCategory("Drinks"))
	assert.False(t, p.InCategory(CategoryBakery))
}

func TestValidate(t *testing.T) {
	ok := Product{ID: 1, Name: "Apple", Price: money.MustParse("£0.40"), Available: 3}
	require.NoError(t, ok.Validate())

	require.Error(t, Product{ID: 0, Name: "Apple"}.Validate())
	require.Error(t, Product{ID: 1}.Validate())
	require.Error(t, Product{ID: 1, Name: "Apple", Available: -1}.Validate())
	require.Error(t, Product{ID: 1, Name: "Apple", Price: -1}.Validate())
}
