// Package cart holds shopping-cart state and the promotional-offer engine.
//
// State transitions are pure functions of (state, action); offer lines are
// always rebuilt from the current lines and never set directly. Engine wraps
// a State and is the only place a cart is mutated.
package cart

import (
	"Storefront/internal/money"
	"Storefront/internal/product"
)

// Line is a product the shopper intends to buy. Quantity is always >= 1
// while the line exists.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// OfferLine is a unit count granted for free by a promotion.
type OfferLine struct {
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	OfferType string          `json:"offer_type"`
}

// State is a cart snapshot. Lines keep first-added order.
type State struct {
	Lines         []Line            `json:"lines"`
	OfferLines    []OfferLine       `json:"offer_lines"`
	KnownProducts []product.Product `json:"-"`
}

// Empty returns a state with no lines, seeded with known products.
func Empty(known []product.Product) State {
	return State{
		Lines:         []Line{},
		OfferLines:    []OfferLine{},
		KnownProducts: append([]product.Product(nil), known...),
	}
}

// IsEmpty reports whether there is nothing to check out.
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0 && len(s.OfferLines) == 0
}

// Line returns the line for productID, if present.
func (s State) Line(productID int) (Line, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.Lines[i], true
	}
	return Line{}, false
}

// Quantity returns the quantity in the cart for productID, 0 if absent.
func (s State) Quantity(productID int) int {
	l, _ := s.Line(productID)
	return l.Quantity
}

// KnownProduct looks productID up among the products seen by this cart.
func (s State) KnownProduct(productID int) (product.Product, bool) {
	for _, p := range s.KnownProducts {
		if p.ID == productID {
			return p, true
		}
	}
	return product.Product{}, false
}

func (s State) indexOf(productID int) int {
	for i, l := range s.Lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Subtotal is the sum of unit price times quantity over all lines.
func (s State) Subtotal() money.Money {
	var total money.Money
	for _, l := range s.Lines {
		total = total.Add(l.Product.Price.Mul(l.Quantity))
	}
	return total
}

// Discount is the value of the free units granted by offers.
func (s State) Discount() money.Money {
	var total money.Money
	for _, o := range s.OfferLines {
		total = total.Add(o.Product.Price.Mul(o.Quantity))
	}
	return total
}

func (s State) Total() money.Money {
	return s.Subtotal().Sub(s.Discount())
}

// TotalItemCount counts purchased and free units together.
func (s State) TotalItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	for _, o := range s.OfferLines {
		n += o.Quantity
	}
	return n
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	return State{
		Lines:         append(make([]Line, 0, len(s.Lines)), s.Lines...),
		OfferLines:    append(make([]OfferLine, 0, len(s.OfferLines)), s.OfferLines...),
		KnownProducts: append([]product.Product(nil), s.KnownProducts...),
	}
}
