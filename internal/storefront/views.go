package storefront

import (
	"strconv"

	"Storefront/internal/cart"
	"Storefront/internal/favorites"
	"Storefront/internal/money"
	"Storefront/internal/product"
)

const freeLabel = "FREE"

// ProductCard is a product as a shopper sees it in a listing.
type ProductCard struct {
	Product      product.Product `json:"product"`
	Availability string          `json:"availability"`
	Liked        bool            `json:"liked"`
	InCart       int             `json:"in_cart"`
}

func productCards(ps []product.Product, s cart.State, favs *favorites.Set) []ProductCard {
	out := make([]ProductCard, 0, len(ps))
	for _, p := range ps {
		out = append(out, ProductCard{
			Product:      p,
			Availability: p.Availability(),
			Liked:        favs.Has(p.ID),
			InCart:       s.Quantity(p.ID),
		})
	}
	return out
}

type CheckoutLine struct {
	Product    product.Product `json:"product"`
	Quantity   int             `json:"quantity"`
	LineTotal  money.Money     `json:"line_total"`
	MaxReached bool            `json:"max_reached"`
}

type CheckoutOffer struct {
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	OfferType string          `json:"offer_type"`
	Label     string          `json:"label"`
}

// CheckoutView is the cart summary rendered at checkout.
type CheckoutView struct {
	Lines      []CheckoutLine  `json:"lines"`
	OfferLines []CheckoutOffer `json:"offer_lines"`
	Subtotal   string          `json:"subtotal"`
	Discount   string          `json:"discount"`
	Total      string          `json:"total"`
	TotalItems int             `json:"total_items"`
	Empty      bool            `json:"empty"`
}

func checkoutView(s cart.State) CheckoutView {
	v := CheckoutView{
		Lines:      make([]CheckoutLine, 0, len(s.Lines)),
		OfferLines: make([]CheckoutOffer, 0, len(s.OfferLines)),
		Subtotal:   s.Subtotal().String(),
		Discount:   "-" + s.Discount().String(),
		Total:      s.Total().String(),
		TotalItems: s.TotalItemCount(),
		Empty:      s.IsEmpty(),
	}

	for _, l := range s.Lines {
		v.Lines = append(v.Lines, CheckoutLine{
			Product:    l.Product,
			Quantity:   l.Quantity,
			LineTotal:  l.Product.Price.Mul(l.Quantity),
			MaxReached: l.Quantity >= l.Product.Available,
		})
	}
	for _, o := range s.OfferLines {
		v.OfferLines = append(v.OfferLines, CheckoutOffer{
			Product:   o.Product,
			Quantity:  o.Quantity,
			OfferType: o.OfferType,
			Label:     strconv.Itoa(o.Quantity) + " × " + freeLabel,
		})
	}
	return v
}
