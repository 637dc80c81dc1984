package models

import "github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"

// PriceRange bounds quote prices, inclusive on both ends.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate rejects a range no price can fall into.
func (r PriceRange) Validate() error {
	if r.Min < 0 {
		return errors.NewValidationError("minimum price cannot be negative")
	}
	if r.Min > r.Max {
		return errors.NewValidationError("minimum price cannot exceed maximum price")
	}
	return nil
}

// FilterCriteria narrows a displayed result set. Only the price range is
// executable; the age buckets advertised by /api/filters are informational.
type FilterCriteria struct {
	PriceRange PriceRange `json:"priceRange"`
}

// DefaultCriteria returns the criteria applied when the caller supplies none.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{PriceRange: PriceRange{Min: 0, Max: 500}}
}
