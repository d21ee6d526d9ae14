package usecase

import "github.com/glowadvisor/backend/internal/domain"

// SelectionRow is one entry of the selection panel
type SelectionRow struct {
	Index   int               `json:"index"`
	Key     domain.ProductKey `json:"key"`
	Product domain.Product    `json:"product"`
}

// SelectionView is the rendered selection panel
type SelectionView struct {
	Empty       bool           `json:"empty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Count       int            `json:"count"`
	Rows        []SelectionRow `json:"rows"`
}

// BuildSelectionView renders items, or the placeholder when there are none
func BuildSelectionView(items []domain.Product) SelectionView {
	view := SelectionView{
		Count: len(items),
		Rows:  make([]SelectionRow, 0, len(items)),
	}
	if len(items) == 0 {
		view.Empty = true
		view.Placeholder = placeholderNoSelected
		return view
	}
	for i, p := range items {
		view.Rows = append(view.Rows, SelectionRow{Index: i, Key: p.Key(), Product: p})
	}
	return view
}
