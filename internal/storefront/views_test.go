package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/favorites"
	"Storefront/internal/money"
	"Storefront/internal/product"
)

var (
	coke = product.Product{
		ID: 1, Type: product.CategoryDrinks, Name: "Coca-Cola 330ml Can",
		Price: money.MustParse("£0.85"), Available: 48,
	}
	croissant = product.Product{
		ID: 7, Type: product.CategoryBakery, Name: "Butter Croissant",
		Price: money.MustParse("£1.25"), Available: 3,
	}
	berries = product.Product{
		ID: 6, Type: product.CategoryFruit, Name: "Strawberries",
		Price: money.MustParse("£3.00"), Available: 0,
	}
)

func TestCheckoutView_Empty(t *testing.T) {
	v := checkoutView(cart.Empty(nil))

	assert.True(t, v.Empty)
	assert.NotNil(t, v.Lines)
	assert.NotNil(t, v.OfferLines)
	assert.Equal(t, "£0.00", v.Subtotal)
	assert.Equal(t, "-£0.00", v.Discount)
	assert.Equal(t, "£0.00", v.Total)
	assert.Equal(t, 0, v.TotalItems)
}

func TestCheckoutView_Offers(t *testing.T) {
	e := cart.NewEngine(nil, nil)
	e.Add(coke)
	e.Add(croissant)
	e.SetQuantity(coke.ID, 13)
	st := e.SetQuantity(croissant.ID, 3)

	v := checkoutView(st)

	require.Len(t, v.Lines, 2)
	assert.Equal(t, "£11.05", v.Lines[0].LineTotal.String())
	assert.False(t, v.Lines[0].MaxReached)
	assert.True(t, v.Lines[1].MaxReached)

	require.Len(t, v.OfferLines, 2)
	assert.Equal(t, "2 × FREE", v.OfferLines[0].Label)
	assert.Equal(t, cart.OfferBuySixGetOne, v.OfferLines[0].OfferType)
	assert.Equal(t, "1 × FREE", v.OfferLines[1].Label)
	assert.Equal(t, cart.FreeCoffeeID, v.OfferLines[1].Product.ID)

	assert.Equal(t, "£14.80", v.Subtotal)
	assert.Equal(t, "-£1.70", v.Discount)
	assert.Equal(t, "£13.10", v.Total)
	assert.Equal(t, 19, v.TotalItems)
	assert.False(t, v.Empty)
}

func TestProductCards(t *testing.T) {
	e := cart.NewEngine(nil, nil)
	st := e.Add(coke)
	favs := favorites.New()
	favs.Toggle(berries.ID)

	cards := productCards([]product.Product{coke, croissant, berries}, st, favs)

	require.Len(t, cards, 3)
	assert.Equal(t, ProductCard{Product: coke, Availability: "Available", InCart: 1}, cards[0])
	assert.Equal(t, "Only 3 left", cards[1].Availability)
	assert.Equal(t, 0, cards[1].InCart)
	assert.Equal(t, "Out of Stock", cards[2].Availability)
	assert.True(t, cards[2].Liked)
}
