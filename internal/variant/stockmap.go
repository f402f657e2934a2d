package variant

import (
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

type stockKey struct {
	size  string
	color string
}

// StockMap is the summed stock per (size, normalized color) pair for one
// snapshot. It is built once and never mutated; a new snapshot means a new map.
// The zero value is an empty map that has not been loaded.
type StockMap struct {
	counts map[stockKey]int
	total  int
	loaded bool
}

// NewStockMap sums the quantities of items sharing a (size, color) pair.
// Negative quantities count as zero.
func NewStockMap(items []models.StockItem) StockMap {
	m := StockMap{counts: make(map[stockKey]int, len(items)), loaded: true}
	for _, item := range items {
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		m.counts[stockKey{size: sizeKey(item.Size), color: colorKey(item.Color)}] += qty
		m.total += qty
	}
	return m
}

// Get returns the stock for a pair, 0 when absent.
func (m StockMap) Get(size, color string) int {
	return m.counts[stockKey{size: sizeKey(size), color: colorKey(color)}]
}

// Total is the sum of all quantities in the snapshot.
func (m StockMap) Total() int {
	return m.total
}

// Loaded reports whether the map was built from a snapshot.
func (m StockMap) Loaded() bool {
	return m.loaded
}

// Entries returns a copy keyed by "{size}-{color}".
func (m StockMap) Entries() map[string]int {
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[Key(k.size, k.color)] = v
	}
	return out
}

// Key formats the stock map key for a pair.
func Key(size, color string) string {
	return sizeKey(size) + "-" + colorKey(color)
}

// BySize returns a lookup keyed (size, color) for Availability.
func (m StockMap) BySize() Lookup {
	return func(size, color string) int { return m.Get(size, color) }
}

// ByColor returns a lookup keyed (color, size) for Availability.
func (m StockMap) ByColor() Lookup {
	return func(color, size string) int { return m.Get(size, color) }
}
