package cart

import (
	"sync"

	"Storefront/internal/money"
	"Storefront/internal/product"
)

// Engine owns one cart. All mutations go through Dispatch (or the helpers
// wrapping it) and are serialized; readers get deep copies.
type Engine struct {
	mu    sync.Mutex
	state State
	rules []Rule

	// OnChange, if set, is called after every dispatch with the action and
	// the states before and after it, while the engine lock is held. It must
	// not call back into the engine.
	OnChange func(a Action, before, after State)
}

// NewEngine returns an empty cart evaluated with rules. A nil rule set
// means DefaultRules.
func NewEngine(rules []Rule, known []product.Product) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{
		state: Empty(known),
		rules: append([]Rule(nil), rules...),
	}
}

// Dispatch applies a and returns a snapshot of the new state.
func (e *Engine) Dispatch(a Action) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatchLocked(a)
}

// Apply lets choose pick an action from the current state and applies it
// without releasing the lock in between. When choose returns false nothing
// is dispatched and the current state is returned.
func (e *Engine) Apply(choose func(s State) (Action, bool)) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := choose(e.state.Clone())
	if !ok {
		return e.state.Clone(), false
	}
	return e.dispatchLocked(a), true
}

func (e *Engine) dispatchLocked(a Action) State {
	before := e.state
	e.state = Reduce(e.state, a, e.rules)
	if e.OnChange != nil {
		e.OnChange(a, before.Clone(), e.state.Clone())
	}
	return e.state.Clone()
}

func (e *Engine) Add(p product.Product) State {
	return e.Dispatch(AddItem{Product: p})
}

func (e *Engine) SetQuantity(productID, quantity int) State {
	return e.Dispatch(SetQuantity{ProductID: productID, Quantity: quantity})
}

func (e *Engine) Remove(productID int) State {
	return e.Dispatch(RemoveItem{ProductID: productID})
}

func (e *Engine) Clear() State {
	return e.Dispatch(ClearCart{})
}

func (e *Engine) SetKnownProducts(ps []product.Product) State {
	return e.Dispatch(SetKnownProducts{Products: ps})
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) Subtotal() money.Money { return e.Snapshot().Subtotal() }
func (e *Engine) Discount() money.Money { return e.Snapshot().Discount() }
func (e *Engine) Total() money.Money    { return e.Snapshot().Total() }
func (e *Engine) TotalItemCount() int   { return e.Snapshot().TotalItemCount() }
