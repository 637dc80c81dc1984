package recommend

import "github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"

// defaultKnowledgeBase maps interest terms to curated gift listings. Prices
// are left empty here; the search handler enriches each listing with live
// retailer quotes.
func defaultKnowledgeBase() map[string][]models.GiftListing {
	return map[string][]models.GiftListing{
		"drawing": {
			{ID: "sketch-pad-pro", Name: "Professional Sketch Pad", Category: "art", AgeMin: 8, Image: "https://example.com/sketchpad.jpg", Rating: models.DefaultRating},
			{ID: "colored-pencil-set", Name: "Artist Colored Pencil Set", Category: "art", AgeMin: 6, Rating: models.DefaultRating},
		},
		"painting": {
			{ID: "acrylic-paint-kit", Name: "Acrylic Paint Starter Kit", Category: "art", AgeMin: 8, Rating: models.DefaultRating},
		},
		"dinosaurs": {
			{ID: "fossil-dig-kit", Name: "Dinosaur Fossil Dig Kit", Category: "science", AgeMin: 6, Rating: models.DefaultRating},
		},
		"science": {
			{ID: "crystal-growing-kit", Name: "Crystal Growing Kit", Category: "science", AgeMin: 8, Rating: models.DefaultRating},
			{ID: "beginner-microscope", Name: "Beginner Microscope", Category: "science", AgeMin: 10, Rating: models.DefaultRating},
		},
		"gaming": {
			{ID: "gaming-headset", Name: "Gaming Headset", Category: "gaming", AgeMin: 12, Rating: models.DefaultRating},
		},
		"cooking": {
			{ID: "electric-mixer", Name: "Electric Mixer", Category: "kitchen", AgeMin: 18, Rating: models.DefaultRating},
		},
		"baking": {
			{ID: "baking-starter-set", Name: "Baking Starter Set", Category: "kitchen", AgeMin: 10, Rating: models.DefaultRating},
		},
		"gardening": {
			{ID: "garden-tool-set", Name: "Gardening Tool Set", Category: "outdoor", AgeMin: 18, Rating: models.DefaultRating},
		},
		"photography": {
			{ID: "dslr-camera", Name: "DSLR Camera", Category: "tech", AgeMin: 16, Rating: models.DefaultRating},
		},
		"reading": {
			{ID: "illustrated-classics", Name: "Illustrated Classics Box Set", Category: "books", AgeMin: 8, Rating: models.DefaultRating},
		},
		"music": {
			{ID: "starter-ukulele", Name: "Starter Ukulele", Category: "music", AgeMin: 6, Rating: models.DefaultRating},
		},
		"telescope": {
			{ID: "travel-telescope", Name: "Travel Telescope", Category: "science", AgeMin: 10, Rating: models.DefaultRating},
		},
	}
}
