package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"Storefront/internal/product"
)

// ErrFetchFailure is the single failure kind of a catalog read. Callers show
// a retry prompt; the cart is never touched.
var ErrFetchFailure = errors.New("catalog fetch failed")

const maxCatalogBody = 4 << 20

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// Failures is the number of consecutive failed fetches that opens the
	// breaker; OpenTimeout is how long it stays open.
	Failures    uint32
	OpenTimeout time.Duration
	// OnStateChange, if set, observes breaker transitions.
	OnStateChange func(from, to gobreaker.State)
}

// Client reads products from a catalog endpoint (GET <base>/s?category=).
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]product.Product]
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.Failures == 0 {
		cfg.Failures = 5
	}

	st := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		IsSuccessful: healthyOutcome,
	}
	if cfg.OnStateChange != nil {
		st.OnStateChange = func(_ string, from, to gobreaker.State) { cfg.OnStateChange(from, to) }
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]product.Product](st),
	}
}

// Fetch returns the products in category ("" or "all" for everything).
// Every failure wraps ErrFetchFailure.
func (c *Client) Fetch(ctx context.Context, category string) ([]product.Product, error) {
	if category == "" {
		category = product.CategoryAll
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}

	ps, err := c.breaker.Execute(func() ([]product.Product, error) {
		return c.fetch(ctx, category)
	})
	if err != nil {
		if errors.Is(err, ErrFetchFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	return ps, nil
}

// healthyOutcome tells the breaker which results say nothing bad about the
// catalog: a caller that went away is not a catalog failure.
func healthyOutcome(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Ready reports whether fetches are currently attempted.
func (c *Client) Ready() bool {
	return c.breaker.State() != gobreaker.StateOpen
}

func (c *Client) fetch(ctx context.Context, category string) ([]product.Product, error) {
	u := fmt.Sprintf("%s/s?category=%s", c.baseURL, url.QueryEscape(category))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrFetchFailure, resp.StatusCode)
	}

	var ps []product.Product
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBody)).Decode(&ps); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetchFailure, err)
	}
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
		}
	}
	if ps == nil {
		ps = []product.Product{}
	}
	return ps, nil
}
