package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/money"
	"Storefront/internal/product"
)

func TestRecompute_Tiers(t *testing.T) {
	testCases := []struct {
		name      string
		lines     []Line
		wantOffer []OfferLine
	}{
		{
			name:      "empty cart",
			lines:     nil,
			wantOffer: []OfferLine{},
		},
		{
			name:      "coke below threshold",
			lines:     []Line{{Product: coke, Quantity: 5}},
			wantOffer: []OfferLine{},
		},
		{
			name:      "coke twelve",
			lines:     []Line{{Product: coke, Quantity: 12}},
			wantOffer: []OfferLine{{Product: coke, Quantity: 2, OfferType: OfferBuySixGetOne}},
		},
		{
			name:      "coke seventeen floors",
			lines:     []Line{{Product: coke, Quantity: 17}},
			wantOffer: []OfferLine{{Product: coke, Quantity: 2, OfferType: OfferBuySixGetOne}},
		},
		{
			name:      "croissant two",
			lines:     []Line{{Product: croissant, Quantity: 2}},
			wantOffer: []OfferLine{},
		},
		{
			name: "both rules in table order",
			lines: []Line{
				{Product: croissant, Quantity: 3},
				{Product: coke, Quantity: 6},
			},
			wantOffer: []OfferLine{
				{Product: coke, Quantity: 1, OfferType: OfferBuySixGetOne},
				{Product: FreeCoffee, Quantity: 1, OfferType: OfferCoffeeWithThree},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantOffer, Recompute(tc.lines, DefaultRules()))
		})
	}
}

func TestRecompute_FirstMatchingLineOnly(t *testing.T) {
	zero := product.Product{ID: 10, Name: "Coca-Cola Zero", Price: money.MustParse("£1.10")}

	// The first coca-cola line is below threshold; the second is not
	// considered and quantities are not aggregated.
	got := Recompute([]Line{
		{Product: coke, Quantity: 4},
		{Product: zero, Quantity: 9},
	}, DefaultRules())

	assert.Empty(t, got)
}

func TestRecompute_CaseInsensitiveTrigger(t *testing.T) {
	shouty := product.Product{ID: 11, Name: "COCA-COLA MULTIPACK", Price: money.MustParse("£3.00")}

	got := Recompute([]Line{{Product: shouty, Quantity: 6}}, DefaultRules())

	require.Len(t, got, 1)
	assert.Equal(t, shouty, got[0].Product)
}

func TestRecompute_CustomRuleTable(t *testing.T) {
	banana := product.Product{ID: 20, Name: "Banana", Price: money.MustParse("£0.25")}
	rules := append(DefaultRules(), BulkFreeUnit("banana", 10, "Ten bananas, one on us"))

	e := NewEngine(rules, nil)
	e.Add(banana)
	s := e.SetQuantity(banana.ID, 21)

	require.Len(t, s.OfferLines, 1)
	assert.Equal(t, 2, s.OfferLines[0].Quantity)
	assert.Equal(t, "£0.50", s.Discount().String())
	assert.Equal(t, "£4.75", s.Total().String())
}

func TestRule_GrantZeroContributesNothing(t *testing.T) {
	r := Rule{
		Label:     "never",
		Trigger:   NameContains("apple"),
		Threshold: 1,
		Grant:     func(int) int { return 0 },
		Reward:    SameProduct,
	}

	assert.Empty(t, Recompute([]Line{{Product: apple, Quantity: 5}}, []Rule{r}))
}

func TestEmptyRuleTable(t *testing.T) {
	e := NewEngine([]Rule{}, nil)
	e.Add(coke)
	s := e.SetQuantity(coke.ID, 60)

	assert.Empty(t, s.OfferLines)
	assert.Equal(t, s.Subtotal(), s.Total())
}

func TestRecompute_NonPositiveGroupSizeGrantsNothing(t *testing.T) {
	rules := append(DefaultRules(),
		BulkFreeUnit("apple", 0, "zero"),
		BundleReward("apple", -2, FreeCoffee, "negative"),
	)

	e := NewEngine(rules, nil)
	var s State
	require.NotPanics(t, func() {
		e.Add(apple)
		s = e.SetQuantity(apple.ID, 5)
	})

	assert.Empty(t, s.OfferLines)
	assert.Equal(t, 0, PerEvery(0)(12))
}
