package derive

import "sort"

// Sort returns a new slice ordered by display date ascending, then urgency
// weight descending, then creation time ascending. The input is not mutated
// and items tying on all three keys keep their relative order.
func Sort(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less is the dashboard ordering used by Sort.
func Less(a, b Item) bool {
	if !a.DisplayDate.Equal(b.DisplayDate) {
		return a.DisplayDate.Before(b.DisplayDate)
	}
	if wa, wb := a.Weight(), b.Weight(); wa != wb {
		return wa > wb
	}
	return a.CreatedTime.Before(b.CreatedTime)
}
