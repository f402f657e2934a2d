package variant

// Lookup returns the stock for an option value paired with a value of the
// other dimension.
type Lookup func(value, other string) int

// Availability reports whether value can be chosen given the selection in the
// other dimension. With nothing selected there it is optimistically true.
func Availability(value, otherSelected string, lookup Lookup) bool {
	if otherSelected == "" {
		return true
	}
	return lookup(value, otherSelected) > 0
}

// ClampQuantity bounds q to [1, max(stock, 1)].
func ClampQuantity(q, stock int) int {
	ceiling := stock
	if ceiling < 1 {
		ceiling = 1
	}
	if q < 1 {
		return 1
	}
	if q > ceiling {
		return ceiling
	}
	return q
}
