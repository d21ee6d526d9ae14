package usecase

import (
	"context"
	"fmt"

	"github.com/glowadvisor/backend/internal/domain"
	"github.com/glowadvisor/backend/internal/infrastructure/catalog"
)

// CatalogService joins the catalog source with the selection store
type CatalogService struct {
	source    domain.CatalogSource
	selection *SelectionStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(source domain.CatalogSource, selection *SelectionStore) *CatalogService {
	return &CatalogService{
		source:    source,
		selection: selection,
	}
}

// View loads the catalog and builds the grid for category. Load failures are
// returned so the caller can show them.
func (s *CatalogService) View(ctx context.Context, category string) (CatalogView, error) {
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return CatalogView{Category: category, Cards: []ProductCard{}}, err
	}

	view := BuildCatalogView(products, category, s.selection)
	view.Categories = catalog.Categories(products)
	return view, nil
}

// Categories returns the distinct catalog categories
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(products), nil
}

// Toggle flips the selection state of the catalog product with key. It
// returns the product and whether it is selected afterwards.
func (s *CatalogService) Toggle(ctx context.Context, key domain.ProductKey) (domain.Product, bool, error) {
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return domain.Product{}, false, err
	}

	product, ok := catalog.Find(products, key)
	if !ok {
		return domain.Product{}, false, fmt.Errorf("%w: %s (%s)", domain.ErrProductNotFound, key.Name, key.Brand)
	}

	return product, s.selection.Toggle(ctx, product), nil
}
