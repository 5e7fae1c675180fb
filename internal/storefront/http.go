package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/product"
	"Storefront/pkg/kit"
)

// FetchFailedMessage is shown whenever the catalog cannot be read.
const FetchFailedMessage = "Failed to load products. Please try again."

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrOutOfStock     = errors.New("product out of stock")
	ErrNotInCart      = errors.New("product not in cart")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog is the product source the storefront reads through.
type Catalog interface {
	Fetch(ctx context.Context, category string) ([]product.Product, error)
	Ready() bool
}

type Server struct {
	Catalog  Catalog
	Sessions *Registry
	Tokens   *TokenMaker
	Metrics  *Metrics
	Log      *zap.Logger

	// SessionLimiter, if set, rate-limits POST /session per client IP.
	SessionLimiter *kit.IPRateLimiter
}

type sessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type productsResponse struct {
	Category string        `json:"category"`
	Query    string        `json:"query,omitempty"`
	Products []ProductCard `json:"products"`
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type favoritesResponse struct {
	IDs   []int `json:"ids"`
	Count int   `json:"count"`
}

type toggleResponse struct {
	ProductID int  `json:"product_id"`
	Liked     bool `json:"liked"`
}

func NewHandler(s *Server, deps kit.HTTPDeps) http.Handler {
	return kit.NewServiceRouter(deps, s.Routes())
}

func (s *Server) Routes() http.Handler {
	s.Sessions.instrument(s.Metrics)

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Group(func(pr chi.Router) {
		if s.SessionLimiter != nil {
			pr.Use(s.SessionLimiter.Middleware)
		}
		pr.Post("/session", s.newSession)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireSession)

		pr.Get("/products", s.listProducts)

		pr.Get("/cart", s.getCart)
		pr.Delete("/cart", s.clearCart)
		pr.Post("/cart/items", s.addItem)
		pr.Put("/cart/items/{id}", s.setQuantity)
		pr.Delete("/cart/items/{id}", s.removeItem)
		pr.Post("/cart/items/{id}/increment", s.increment)
		pr.Post("/cart/items/{id}/decrement", s.decrement)

		pr.Get("/favorites", s.listFavorites)
		pr.Post("/favorites/{id}", s.toggleFavorite)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if !s.Catalog.Ready() {
		s.log().Warn("readyz failed: catalog breaker open")
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) newSession(w http.ResponseWriter, r *http.Request) {
	id := "s_" + uuid.NewString()

	tok, exp, err := s.Tokens.New(id)
	if err != nil {
		s.log().Error("sign session token failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	s.Sessions.GetOrCreate(id)

	kit.WriteJSON(w, http.StatusCreated, sessionResponse{Token: tok, SessionID: id, ExpiresAt: exp})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	category := r.URL.Query().Get("category")
	if category == "" {
		category = product.CategoryAll
	}
	q := r.URL.Query().Get("q")

	ps, err := s.fetch(r.Context(), category)
	if err != nil {
		s.writeCartError(w, r, err)
		return
	}
	st := sess.Cart.SetKnownProducts(ps)

	kit.WriteJSON(w, http.StatusOK, productsResponse{
		Category: category,
		Query:    q,
		Products: productCards(product.Filter(ps, q), st, sess.Favorites),
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	kit.WriteJSON(w, http.StatusOK, checkoutView(sess.Cart.Snapshot()))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	kit.WriteJSON(w, http.StatusOK, checkoutView(sess.Cart.Clear()))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	var req addItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := s.resolveProduct(r.Context(), sess, req.ProductID)
	if err != nil {
		s.writeCartError(w, r, err)
		return
	}
	if p.OutOfStock() {
		s.writeCartError(w, r, ErrOutOfStock)
		return
	}

	st := sess.Cart.Add(p)
	s.log().Debug("cart add", zap.String("session", sess.ID), zap.Int("product_id", p.ID))
	kit.WriteJSON(w, http.StatusOK, checkoutView(st))
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	kit.WriteJSON(w, http.StatusOK, checkoutView(sess.Cart.SetQuantity(id, *req.Quantity)))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, checkoutView(sess.Cart.Remove(id)))
}

// increment adds one unit while the line is below the product's stock.
// At the limit the cart is returned unchanged.
func (s *Server) increment(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, func(l cart.Line) (int, bool) {
		if l.Quantity >= l.Product.Available {
			return 0, false
		}
		return l.Quantity + 1, true
	})
}

// decrement takes one unit away; the last unit removes the line.
func (s *Server) decrement(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, func(l cart.Line) (int, bool) {
		return l.Quantity - 1, true
	})
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, next func(cart.Line) (int, bool)) {
	sess := mustSession(r)

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	found := false
	st, _ := sess.Cart.Apply(func(st cart.State) (cart.Action, bool) {
		l, ok := st.Line(id)
		if !ok {
			return nil, false
		}
		found = true

		q, ok := next(l)
		if !ok {
			return nil, false
		}
		return cart.SetQuantity{ProductID: id, Quantity: q}, true
	})
	if !found {
		s.writeCartError(w, r, ErrNotInCart)
		return
	}
	kit.WriteJSON(w, http.StatusOK, checkoutView(st))
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	ids := sess.Favorites.IDs()
	kit.WriteJSON(w, http.StatusOK, favoritesResponse{IDs: ids, Count: len(ids)})
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, toggleResponse{ProductID: id, Liked: sess.Favorites.Toggle(id)})
}

// resolveProduct finds id among the products the session has already seen,
// falling back to a full catalog read.
func (s *Server) resolveProduct(ctx context.Context, sess *Session, id int) (product.Product, error) {
	if p, ok := sess.Cart.Snapshot().KnownProduct(id); ok {
		return p, nil
	}

	ps, err := s.fetch(ctx, product.CategoryAll)
	if err != nil {
		return product.Product{}, err
	}
	if p, ok := sess.Cart.SetKnownProducts(ps).KnownProduct(id); ok {
		return p, nil
	}
	return product.Product{}, ErrUnknownProduct
}

func (s *Server) fetch(ctx context.Context, category string) ([]product.Product, error) {
	ps, err := s.Catalog.Fetch(ctx, category)
	if err != nil {
		s.Metrics.fetchFailed()
		s.log().Warn("catalog fetch failed", zap.Error(err), zap.String("category", category))
		return nil, err
	}
	return ps, nil
}

func (s *Server) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrFetchFailure):
		kit.WriteError(w, r, http.StatusServiceUnavailable, FetchFailedMessage, nil)
	case errors.Is(err, ErrUnknownProduct):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, ErrNotInCart):
		kit.WriteError(w, r, http.StatusNotFound, "product not in cart", nil)
	case errors.Is(err, ErrOutOfStock):
		kit.WriteError(w, r, http.StatusConflict, "out of stock", nil)
	default:
		s.log().Error("storefront request failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := kit.DecodeJSON(w, r, v); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return false
	}
	if err := validate.Struct(v); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", kit.ValidationDetails(err))
		return false
	}
	return true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
