package usecase

import "github.com/glowadvisor/backend/internal/domain"

const (
	placeholderNoCategory = "Select a category to view products"
	placeholderNoProducts = "No products found in this category."
	placeholderNoSelected = "No products selected yet."
)

// Membership answers whether a product is currently selected
type Membership interface {
	Contains(key domain.ProductKey) bool
}

// ProductCard is one rendered catalog entry. Position is the display index
// within the current filter and is informational only; cards are addressed
// by Key.
type ProductCard struct {
	Position int               `json:"position"`
	Key      domain.ProductKey `json:"key"`
	Product  domain.Product    `json:"product"`
	Selected bool              `json:"selected"`
}

// CatalogView is the product grid for one category
type CatalogView struct {
	Category    string        `json:"category"`
	Categories  []string      `json:"categories"`
	Cards       []ProductCard `json:"cards"`
	Placeholder string        `json:"placeholder,omitempty"`
}

// FilterByCategory keeps products whose category equals category exactly
func FilterByCategory(products []domain.Product, category string) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// BuildCatalogView filters products by category and derives each card's
// highlight from membership at build time
func BuildCatalogView(products []domain.Product, category string, membership Membership) CatalogView {
	view := CatalogView{
		Category: category,
		Cards:    []ProductCard{},
	}
	if category == "" {
		view.Placeholder = placeholderNoCategory
		return view
	}

	for i, p := range FilterByCategory(products, category) {
		view.Cards = append(view.Cards, ProductCard{
			Position: i,
			Key:      p.Key(),
			Product:  p,
			Selected: membership != nil && membership.Contains(p.Key()),
		})
	}
	if len(view.Cards) == 0 {
		view.Placeholder = placeholderNoProducts
	}
	return view
}
