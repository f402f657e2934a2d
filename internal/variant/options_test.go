package variant_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
)

func TestSortSizes(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"standard out of order", []string{"XL", "S", "3XL", "M", "XS"}, []string{"XS", "S", "M", "XL", "3XL"}},
		{"non-standard alphabetical", []string{"32", "30", "28"}, []string{"28", "30", "32"}},
		{"mixed", []string{"One Size", "L", "28", "S"}, []string{"S", "L", "28", "One Size"}},
		{"duplicates and blanks", []string{"M", " M ", "", "S"}, []string{"S", "M"}},
		{"case-insensitive rank", []string{"xl", "s"}, []string{"s", "xl"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, variant.SortSizes(tt.input)); diff != "" {
				t.Errorf("SortSizes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeSizeOptions(t *testing.T) {
	stock := []models.StockItem{
		{Size: "L", Color: "Red", Quantity: 1},
		{Size: "S", Color: "Red", Quantity: 0},
		{Size: "L", Color: "Blue", Quantity: 2},
	}

	tests := []struct {
		name     string
		product  models.Product
		stock    []models.StockItem
		expected []string
	}{
		{"explicit wins", models.Product{Sizes: []string{"XL", "M"}}, stock, []string{"M", "XL"}},
		{"derived from stock", models.Product{}, stock, []string{"S", "L"}},
		{"standard fallback", models.Product{}, nil, []string{variant.Standard}},
		{"stock with blank sizes only", models.Product{}, []models.StockItem{{Color: "Red", Quantity: 1}}, []string{variant.Standard}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := variant.ComputeSizeOptions(tt.product, tt.stock)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ComputeSizeOptions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeColorOptions(t *testing.T) {
	stock := []models.StockItem{
		{Size: "M", Color: "off-white", Quantity: 1},
		{Size: "M", Color: "Off White", Quantity: 1},
		{Size: "M", Color: "", Quantity: 4},
		{Size: "L", Color: "black", Quantity: 0},
	}

	tests := []struct {
		name     string
		product  models.Product
		stock    []models.StockItem
		expected []string
	}{
		{"explicit normalized and sorted", models.Product{Colors: []string{"red", "Blue", "RED"}}, stock, []string{"Blue", "Red"}},
		{"derived skips empty", models.Product{}, stock, []string{"Black", "Off White"}},
		{"standard fallback", models.Product{}, nil, []string{variant.Standard}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := variant.ComputeColorOptions(tt.product, tt.stock)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ComputeColorOptions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
