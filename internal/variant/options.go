package variant

import (
	"sort"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// ComputeSizeOptions returns the product's declared sizes, else the sizes
// present in stock, else just Standard, in display order.
func ComputeSizeOptions(product models.Product, stock []models.StockItem) []string {
	if sizes := SortSizes(product.Sizes); len(sizes) > 0 {
		return sizes
	}
	fromStock := make([]string, 0, len(stock))
	for _, item := range stock {
		fromStock = append(fromStock, item.Size)
	}
	if sizes := SortSizes(fromStock); len(sizes) > 0 {
		return sizes
	}
	return []string{Standard}
}

// ComputeColorOptions returns the product's declared colors, else the
// non-empty colors present in stock, else just Standard. Values are
// normalized, deduplicated and sorted.
func ComputeColorOptions(product models.Product, stock []models.StockItem) []string {
	if colors := distinctColors(product.Colors); len(colors) > 0 {
		return colors
	}
	fromStock := make([]string, 0, len(stock))
	for _, item := range stock {
		fromStock = append(fromStock, item.Color)
	}
	if colors := distinctColors(fromStock); len(colors) > 0 {
		return colors
	}
	return []string{Standard}
}

func distinctColors(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = NormalizeColor(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
