package util

import "sort"

// SortedKeys returns the map's keys in sorted order, for deterministic
// iteration over map-shaped data.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
