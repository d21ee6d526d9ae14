package domain

// Product represents a single catalog entry
type Product struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// ProductKey identifies a product. The catalog has no id field, so identity
// is the (name, brand) pair.
type ProductKey struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Brand string `json:"brand" form:"brand"`
}

// Key returns the identity of the product
func (p Product) Key() ProductKey {
	return ProductKey{Name: p.Name, Brand: p.Brand}
}

// Catalog is the document served by the catalog resource
type Catalog struct {
	Products []Product `json:"products"`
}
