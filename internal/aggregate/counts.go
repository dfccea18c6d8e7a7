package aggregate

import (
	"cmp"
	"slices"
)

// Count is one entry of a value count.
type Count[K cmp.Ordered] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// ValueCounts counts occurrences of key, largest first. Ties keep first-seen order.
func ValueCounts[T any, K cmp.Ordered](items []T, key func(T) (K, bool)) []Count[K] {
	index := make(map[K]int)

	var out []Count[K]

	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}

		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, Count[K]{Key: k})
		}

		out[i].Count++
	}

	slices.SortStableFunc(out, func(a, b Count[K]) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return out
}

// TopN returns at most the first n counts.
func TopN[K cmp.Ordered](counts []Count[K], n int) []Count[K] {
	if n < 0 || n >= len(counts) {
		return slices.Clone(counts)
	}

	return slices.Clone(counts[:n])
}
