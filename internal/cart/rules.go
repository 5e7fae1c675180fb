package cart

import (
	"strings"

	"Storefront/internal/money"
	"Storefront/internal/product"
)

const (
	OfferBuySixGetOne    = "Buy 6 get 1 free"
	OfferCoffeeWithThree = "Free with 3 croissants"
)

// FreeCoffeeID sits outside the catalog id space.
const FreeCoffeeID = 999

// FreeCoffee is the synthetic reward granted with croissants.
var FreeCoffee = product.Product{
	ID:          FreeCoffeeID,
	Type:        product.CategoryDrinks,
	Name:        "Free Coffee",
	Description: "Complimentary coffee with croissant purchase",
	Rating:      4.5,
	Img:         "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=300",
	Price:       money.FromMinor(0),
	Available:   100,
}

// Rule describes one promotion. A rule looks at the first line whose product
// satisfies Trigger; once that line reaches Threshold, Grant(quantity) units
// of Reward(triggerProduct) are added as an offer line labelled Label.
type Rule struct {
	Label     string
	Trigger   func(product.Product) bool
	Threshold int
	Grant     func(quantity int) int
	Reward    func(trigger product.Product) product.Product
}

// NameContains matches products whose name contains substr, ignoring case.
func NameContains(substr string) func(product.Product) bool {
	substr = strings.ToLower(substr)
	return func(p product.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), substr)
	}
}

// PerEvery grants one unit per complete group of n. A group size below one
// grants nothing.
func PerEvery(n int) func(int) int {
	return func(qty int) int {
		if n <= 0 {
			return 0
		}
		return qty / n
	}
}

// SameProduct rewards more of the trigger product.
func SameProduct(trigger product.Product) product.Product { return trigger }

// FixedReward always rewards p.
func FixedReward(p product.Product) func(product.Product) product.Product {
	return func(product.Product) product.Product { return p }
}

// BulkFreeUnit gives one unit of the trigger product free per n bought.
func BulkFreeUnit(trigger string, n int, label string) Rule {
	return Rule{
		Label:     label,
		Trigger:   NameContains(trigger),
		Threshold: n,
		Grant:     PerEvery(n),
		Reward:    SameProduct,
	}
}

// BundleReward gives one reward per n units of the trigger product.
func BundleReward(trigger string, n int, reward product.Product, label string) Rule {
	return Rule{
		Label:     label,
		Trigger:   NameContains(trigger),
		Threshold: n,
		Grant:     PerEvery(n),
		Reward:    FixedReward(reward),
	}
}

// DefaultRules is the storefront's promotion table, in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		BulkFreeUnit("coca-cola", 6, OfferBuySixGetOne),
		BundleReward("croissant", 3, FreeCoffee, OfferCoffeeWithThree),
	}
}

// Recompute derives the offer lines for lines from scratch.
func Recompute(lines []Line, rules []Rule) []OfferLine {
	out := make([]OfferLine, 0, len(rules))
	for _, r := range rules {
		if o, ok := r.evaluate(lines); ok {
			out = append(out, o)
		}
	}
	return out
}

func (r Rule) evaluate(lines []Line) (OfferLine, bool) {
	for _, l := range lines {
		if !r.Trigger(l.Product) {
			continue
		}
		if l.Quantity < r.Threshold {
			return OfferLine{}, false
		}
		qty := r.Grant(l.Quantity)
		if qty <= 0 {
			return OfferLine{}, false
		}
		return OfferLine{
			Product:   r.Reward(l.Product),
			Quantity:  qty,
			OfferType: r.Label,
		}, true
	}
	return OfferLine{}, false
}
