package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/glowadvisor/backend/internal/domain"
)

// Loader fetches the static product catalog from a fixed location. Every call
// performs a fresh fetch; there is no caching and no retry.
type Loader struct {
	source     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLoader creates a loader for source, which is either an http(s) URL or a
// local file path.
func NewLoader(source string, timeout time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source: source,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "catalog"),
	}
}

// IsRemote reports whether the catalog is fetched over HTTP
func (l *Loader) IsRemote() bool {
	return strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://")
}

// LoadProducts returns the products field of the catalog document in file order
func (l *Loader) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var (
		body []byte
		err  error
	)
	if l.IsRemote() {
		body, err = l.fetch(ctx)
	} else {
		body, err = os.ReadFile(l.source)
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
	}
	if err != nil {
		l.logger.Error("catalog load failed", "source", l.source, "error", err)
		return nil, err
	}

	var doc domain.Catalog
	if err := json.Unmarshal(body, &doc); err != nil {
		l.logger.Error("catalog decode failed", "source", l.source, "error", err)
		return nil, fmt.Errorf("%w: failed to decode catalog: %v", domain.ErrCatalogUnavailable, err)
	}

	l.logger.Debug("catalog loaded", "source", l.source, "products", len(doc.Products))
	return doc.Products, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "GlowAdvisor/1.0")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", domain.ErrCatalogUnavailable, err)
	}
	return body, nil
}

// Categories returns the distinct categories in first-seen order
func Categories(products []domain.Product) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}

// Find returns the catalog product with the given key
func Find(products []domain.Product, key domain.ProductKey) (domain.Product, bool) {
	for _, p := range products {
		if p.Key() == key {
			return p, true
		}
	}
	return domain.Product{}, false
}
