package models

import "encoding/json"

// DefaultRating is applied when a listing arrives without a rating.
const DefaultRating = 4.5

// PriceQuote is a price for a listing at a specific retailer.
type PriceQuote struct {
	Retailer string  `json:"retailer"`
	Price    float64 `json:"price"`
}

// GiftListing is a single recommended item returned by a search, carrying
// zero or more price quotes.
type GiftListing struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Image       string       `json:"image,omitempty"`
	AgeMin      int          `json:"age_min,omitempty"`
	Rating      float64      `json:"rating"`
	Prices      []PriceQuote `json:"prices"`
}

// UnmarshalJSON is the single deserialization boundary for listings: a
// missing rating becomes DefaultRating and absent prices become an empty
// slice, so consumers never null-check either field.
func (g *GiftListing) UnmarshalJSON(data []byte) error {
	type alias GiftListing
	aux := struct {
		Rating *float64 `json:"rating"`
		*alias
	}{
		alias: (*alias)(g),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Rating != nil {
		g.Rating = *aux.Rating
	} else {
		g.Rating = DefaultRating
	}
	if g.Prices == nil {
		g.Prices = []PriceQuote{}
	}
	return nil
}
