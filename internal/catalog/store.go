package catalog

import (
	"context"

	"Storefront/internal/product"
)

// Store is the read side of the catalog.
type Store interface {
	Ping(ctx context.Context) error
	// List returns the products in category sorted by id. "" and "all"
	// mean every category; an unknown category yields an empty list.
	List(ctx context.Context, category string) ([]product.Product, error)
	Get(ctx context.Context, id int) (product.Product, bool, error)
}
