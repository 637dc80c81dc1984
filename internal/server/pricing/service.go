// Package pricing collects retailer price quotes for a product.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/config"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/metrics"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// Retailer resolves a product name to a price at one shop.
type Retailer interface {
	Name() string
	Lookup(ctx context.Context, product string) (float64, error)
}

// Service fans a product lookup out to its retailers and keeps the quotes
// that came back with a positive price. A retailer failure drops that quote
// and never fails the comparison.
type Service struct {
	retailers []Retailer
	log       logger.Logger
}

func NewService(retailers []Retailer, log logger.Logger) *Service {
	return &Service{
		retailers: retailers,
		log:       log.WithFields(map[string]interface{}{"component": "pricing"}),
	}
}

// Compare returns one quote per retailer that produced a positive price.
// The result is never nil and preserves retailer order.
func (s *Service) Compare(ctx context.Context, product string) []models.PriceQuote {
	quotes := make([]models.PriceQuote, 0, len(s.retailers))
	for _, r := range s.retailers {
		price, err := r.Lookup(ctx, product)
		if err != nil {
			metrics.PriceLookupFailures.WithLabelValues(r.Name()).Inc()
			s.log.WithError(err).Warn("price lookup failed", map[string]interface{}{
				"retailer": r.Name(),
				"product":  product,
			})
			continue
		}
		if price <= 0 {
			continue
		}
		quotes = append(quotes, models.PriceQuote{Retailer: r.Name(), Price: price})
	}
	return quotes
}

// HTTPRetailer queries a price endpoint that answers GET <base>?q=<product>
// with {"price": N}.
type HTTPRetailer struct {
	name    string
	baseURL string
	client  *http.Client
}

func NewHTTPRetailer(name, baseURL string, timeout time.Duration) *HTTPRetailer {
	return &HTTPRetailer{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *HTTPRetailer) Name() string { return r.name }

func (r *HTTPRetailer) Lookup(ctx context.Context, product string) (float64, error) {
	endpoint := fmt.Sprintf("%s?q=%s", r.baseURL, url.QueryEscape(product))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", r.name, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", r.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("query %s: unexpected status %d", r.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read %s response: %w", r.name, err)
	}

	var payload struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode %s response: %w", r.name, err)
	}
	return payload.Price, nil
}

// FromConfig builds one HTTP retailer per configured entry.
func FromConfig(entries []config.RetailerConfig, timeout time.Duration) []Retailer {
	retailers := make([]Retailer, 0, len(entries))
	for _, e := range entries {
		retailers = append(retailers, NewHTTPRetailer(e.Name, e.URL, timeout))
	}
	return retailers
}
