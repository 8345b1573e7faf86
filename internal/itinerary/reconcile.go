// Package itinerary merges a suggested visiting order into the stored places of a trip.
package itinerary

import "trip-planner-backend/internal/models"

// Reconcile returns places ordered by the suggested names.
//
// Each name selects the first not yet selected place with exactly that name.
// Names without a match are skipped. Places that were never selected follow in
// their original order, so the result is always a permutation of places.
func Reconcile(places []*models.Place, order []string) []*models.Place {
	out := make([]*models.Place, 0, len(places))
	if len(order) == 0 {
		return append(out, places...)
	}

	selected := make([]bool, len(places))
	for _, name := range order {
		for i, p := range places {
			if !selected[i] && p.Name == name {
				selected[i] = true
				out = append(out, p)
				break
			}
		}
	}

	for i, p := range places {
		if !selected[i] {
			out = append(out, p)
		}
	}
	return out
}

// SortKeys returns n sort keys spaced by step starting at base
func SortKeys(base, step int64, n int) []int64 {
	if step <= 0 {
		step = 1
	}
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = base + int64(i)*step
	}
	return keys
}
