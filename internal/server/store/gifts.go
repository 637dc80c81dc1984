package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// GiftsByInterests returns catalog listings tagged with any of the given
// interest terms, newest first, up to limit.
func (p *Postgres) GiftsByInterests(ctx context.Context, interests []string, limit int) ([]models.GiftListing, error) {
	if len(interests) == 0 {
		return []models.GiftListing{}, nil
	}
	const q = `
		SELECT id, name, description, category, image_url, age_min
		FROM gifts
		WHERE interest = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := p.DB.QueryContext(ctx, q, pq.Array(interests), limit)
	if err != nil {
		return nil, fmt.Errorf("query gifts: %w", err)
	}
	defer rows.Close()

	listings := []models.GiftListing{}
	for rows.Next() {
		var l models.GiftListing
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Category, &l.Image, &l.AgeMin); err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		l.Rating = models.DefaultRating
		l.Prices = []models.PriceQuote{}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gifts: %w", err)
	}
	return listings, nil
}

// Categories returns the distinct category names in the catalog.
func (p *Postgres) Categories(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM categories ORDER BY name`

	rows, err := p.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
