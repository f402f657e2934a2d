package variant

import "github.com/rjsanjaymandal/fitByte-sub000/internal/models"

// OptionState is one option with its availability under the current selection
type OptionState struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// View is everything a product page renders, derived from one snapshot
type View struct {
	ProductID           int              `json:"product_id"`
	Slug                string           `json:"slug"`
	Sizes               []OptionState    `json:"sizes"`
	Colors              []OptionState    `json:"colors"`
	Selection           models.Selection `json:"selection"`
	StockForSelection   int              `json:"stock_for_selection"`
	MaxQuantity         int              `json:"max_quantity"`
	StockLoaded         bool             `json:"stock_loaded"`
	TotalStock          int              `json:"total_stock"`
	GlobalOutOfStock    bool             `json:"global_out_of_stock"`
	SelectionOutOfStock bool             `json:"selection_out_of_stock"`
	OutOfStock          bool             `json:"out_of_stock"`
}

// View computes the current view.
func (r *Resolver) View() View {
	v := View{
		ProductID:           r.product.ID,
		Slug:                r.product.Slug,
		Sizes:               make([]OptionState, 0, len(r.sizes)),
		Colors:              make([]OptionState, 0, len(r.colors)),
		Selection:           r.sel,
		StockForSelection:   r.StockForSelection(),
		StockLoaded:         r.stock.Loaded(),
		TotalStock:          r.stock.Total(),
		GlobalOutOfStock:    r.GlobalOutOfStock(),
		SelectionOutOfStock: r.SelectionOutOfStock(),
		OutOfStock:          r.IsOutOfStock(),
	}
	v.MaxQuantity = v.StockForSelection
	for _, s := range r.sizes {
		v.Sizes = append(v.Sizes, OptionState{Value: s, Available: r.IsSizeAvailable(s)})
	}
	for _, c := range r.colors {
		v.Colors = append(v.Colors, OptionState{Value: c, Available: r.IsColorAvailable(c)})
	}
	return v
}
