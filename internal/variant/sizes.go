package variant

import (
	"sort"
	"strings"
)

var standardSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "3XL"}

func standardRank(size string) (int, bool) {
	upper := strings.ToUpper(strings.TrimSpace(size))
	for i, s := range standardSizes {
		if s == upper {
			return i, true
		}
	}
	return 0, false
}

// SortSizes returns the distinct non-empty sizes with standard sizes first in
// canonical order, followed by everything else alphabetically.
func SortSizes(sizes []string) []string {
	seen := make(map[string]bool, len(sizes))
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, iStd := standardRank(out[i])
		rj, jStd := standardRank(out[j])
		switch {
		case iStd && jStd:
			return ri < rj
		case iStd != jStd:
			return iStd
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func sizeKey(raw string) string {
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return Standard
}
