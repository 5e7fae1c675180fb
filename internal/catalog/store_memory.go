package catalog

import (
	"context"
	"sort"
	"sync"

	"Storefront/internal/money"
	"Storefront/internal/product"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[int]product.Product
}

// NewMemStore returns a store holding ps, or the demo catalog if ps is empty.
func NewMemStore(ps ...product.Product) *MemStore {
	if len(ps) == 0 {
		ps = DemoProducts()
	}
	s := &MemStore{m: make(map[int]product.Product, len(ps))}
	for _, p := range ps {
		s.m[p.ID] = p
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, category string) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Product, 0, len(s.m))
	for _, p := range s.m {
		if p.InCategory(category) {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int) (product.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

// DemoProducts is the seed catalog used by the in-memory store and by
// SeedPostgres.
func DemoProducts() []product.Product {
	return []product.Product{
		{
			ID: 1, Type: product.CategoryDrinks, Name: "Coca-Cola 330ml Can",
			Description: "Classic Coca-Cola in a chilled can", Rating: 4.6,
			Img:   "https://images.unsplash.com/photo-1554866585-cd94860890b7?w=300",
			Price: money.MustParse("£0.85"), Available: 48,
		},
		{
			ID: 2, Type: product.CategoryDrinks, Name: "Sparkling Water",
			Description: "Lightly carbonated spring water", Rating: 4.1,
			Img:   "https://images.unsplash.com/photo-1523362628745-0c100150b504?w=300",
			Price: money.MustParse("£0.60"), Available: 30,
		},
		{
			ID: 3, Type: product.CategoryDrinks, Name: "Orange Juice",
			Description: "Freshly squeezed, no added sugar", Rating: 4.4,
			Img:   "https://images.unsplash.com/photo-1600271886742-f049cd451bba?w=300",
			Price: money.MustParse("£1.95"), Available: 7,
		},
		{
			ID: 4, Type: product.CategoryFruit, Name: "Bananas",
			Description: "Bunch of five ripe bananas", Rating: 4.2,
			Img:   "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e?w=300",
			Price: money.MustParse("£1.10"), Available: 25,
		},
		{
			ID: 5, Type: product.CategoryFruit, Name: "Pink Lady Apples",
			Description: "Crisp and sweet, pack of four", Rating: 4.7,
			Img:   "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?w=300",
			Price: money.MustParse("£2.20"), Available: 4,
		},
		{
			ID: 6, Type: product.CategoryFruit, Name: "Strawberries",
			Description: "British strawberries, 400g punnet", Rating: 4.5,
			Img:   "https://images.unsplash.com/photo-1464965911861-746a04b4bca6?w=300",
			Price: money.MustParse("£3.00"), Available: 0,
		},
		{
			ID: 7, Type: product.CategoryBakery, Name: "Butter Croissant",
			Description: "Flaky all-butter croissant baked this morning", Rating: 4.8,
			Img:   "https://images.unsplash.com/photo-1555507036-ab1f4038808a?w=300",
			Price: money.MustParse("£1.25"), Available: 18,
		},
		{
			ID: 8, Type: product.CategoryBakery, Name: "Sourdough Loaf",
			Description: "Slow-fermented white sourdough", Rating: 4.6,
			Img:   "https://images.unsplash.com/photo-1509440159596-0249088772ff?w=300",
			Price: money.MustParse("£3.50"), Available: 9,
		},
	}
}
