// Package product defines the catalog entry shared by the catalog service,
// the catalog client and the cart engine.
package product

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"Storefront/internal/money"
)

const (
	CategoryAll    = "all"
	CategoryDrinks = "drinks"
	CategoryFruit  = "fruit"
	CategoryBakery = "bakery"
)

// Categories lists the filters offered to shoppers, "all" first.
var Categories = []string{CategoryAll, CategoryDrinks, CategoryFruit, CategoryBakery}

const (
	lowStockMax  = 5
	plentifulMin = 10
)

// Product is a catalog entry. The JSON shape matches the catalog wire format,
// with the price travelling as a currency string.
type Product struct {
	ID          int         `json:"id"          validate:"min=1"`
	Type        string      `json:"type"`
	Name        string      `json:"name"        validate:"required"`
	Description string      `json:"description"`
	Rating      float64     `json:"rating"      validate:"min=0"`
	Img         string      `json:"img"`
	Price       money.Money `json:"price"       validate:"min=0"`
	Available   int         `json:"available"   validate:"min=0"`
}

var validate = validator.New()

// Validate checks the fields the cart relies on.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("product %d: %w", p.ID, err)
	}
	return nil
}

func (p Product) OutOfStock() bool { return p.Available <= 0 }

// LowStock reports a small but non-zero stock level.
func (p Product) LowStock() bool { return p.Available > 0 && p.Available <= lowStockMax }

// Availability is the shopper-facing stock label.
func (p Product) Availability() string {
	switch {
	case p.OutOfStock():
		return "Out of Stock"
	case p.Available >= plentifulMin:
		return "Available"
	default:
		return fmt.Sprintf("Only %d left", p.Available)
	}
}

// Matches reports whether term occurs in the name or description,
// ignoring case. An empty term matches everything.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// Filter returns the products matching term, preserving order.
func Filter(ps []Product, term string) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if p.Matches(term) {
			out = append(out, p)
		}
	}
	return out
}

// InCategory reports whether p belongs to category; "" and "all" match all.
func (p Product) InCategory(category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == CategoryAll {
		return true
	}
	return strings.EqualFold(p.Type, category)
}
