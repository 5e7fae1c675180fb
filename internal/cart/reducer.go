package cart

import "Storefront/internal/product"

// Action is a cart state transition.
type Action interface {
	// Op names the action for logs and metrics.
	Op() string
	apply(s State) State
}

// AddItem adds one unit of Product, appending a line on first add.
type AddItem struct{ Product product.Product }

// SetQuantity replaces a line's quantity; <= 0 removes the line and an
// absent product is ignored.
type SetQuantity struct {
	ProductID int
	Quantity  int
}

// RemoveItem drops the line for ProductID.
type RemoveItem struct{ ProductID int }

// ApplyOffers recomputes offers without touching lines.
type ApplyOffers struct{}

// ClearCart empties lines and offers.
type ClearCart struct{}

// SetKnownProducts replaces the products the cart has seen. Lines are left
// as they are.
type SetKnownProducts struct{ Products []product.Product }

func (AddItem) Op() string          { return "add" }
func (SetQuantity) Op() string      { return "set_quantity" }
func (RemoveItem) Op() string       { return "remove" }
func (ApplyOffers) Op() string      { return "apply_offers" }
func (ClearCart) Op() string        { return "clear" }
func (SetKnownProducts) Op() string { return "set_known_products" }

func (a AddItem) apply(s State) State {
	if i := s.indexOf(a.Product.ID); i >= 0 {
		s.Lines[i].Quantity++
		return s
	}
	s.Lines = append(s.Lines, Line{Product: a.Product, Quantity: 1})
	return s
}

func (a SetQuantity) apply(s State) State {
	i := s.indexOf(a.ProductID)
	if i < 0 {
		return s
	}
	if a.Quantity <= 0 {
		s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
		return s
	}
	s.Lines[i].Quantity = a.Quantity
	return s
}

func (a RemoveItem) apply(s State) State {
	return SetQuantity{ProductID: a.ProductID}.apply(s)
}

func (ApplyOffers) apply(s State) State { return s }

func (ClearCart) apply(s State) State {
	s.Lines = []Line{}
	s.OfferLines = []OfferLine{}
	return s
}

func (a SetKnownProducts) apply(s State) State {
	s.KnownProducts = append([]product.Product(nil), a.Products...)
	return s
}

// Reduce applies a to a copy of s and returns the new state. Every action
// that can change lines is followed by a full offer recomputation.
func Reduce(s State, a Action, rules []Rule) State {
	next := a.apply(s.Clone())

	switch a.(type) {
	case ClearCart, SetKnownProducts:
		return next
	default:
		next.OfferLines = Recompute(next.Lines, rules)
		return next
	}
}
