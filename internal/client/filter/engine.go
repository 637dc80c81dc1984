// Package filter narrows search results by price without touching the
// network. Filtering is pure: the input slice is never mutated and the
// output preserves the input ordering.
package filter

import (
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// Filter returns the listings whose price falls inside the criteria's range.
// A nil criteria means the default range. Listings with no price quotes are
// always kept; a listing with quotes is kept when at least one quote lies in
// [Min, Max] inclusive.
func Filter(results []models.GiftListing, criteria *models.FilterCriteria) []models.GiftListing {
	if criteria == nil {
		def := models.DefaultCriteria()
		criteria = &def
	}
	filtered := make([]models.GiftListing, 0, len(results))
	for _, listing := range results {
		if Matches(listing, criteria.PriceRange) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

// Matches reports whether the listing passes the price range. Unknown price
// always passes.
func Matches(listing models.GiftListing, r models.PriceRange) bool {
	if len(listing.Prices) == 0 {
		return true
	}
	for _, quote := range listing.Prices {
		if quote.Price >= r.Min && quote.Price <= r.Max {
			return true
		}
	}
	return false
}
