// Package carousel pages through a sequence on a timer.
package carousel

// DefaultPageSize is the number of cards per page.
const DefaultPageSize = 3

// TotalPages returns ceil(n/size), or 0 when there is nothing to show.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Page returns items[i*size : min((i+1)*size, n)]. Out-of-range pages are empty.
func Page[T any](items []T, size, i int) []T {
	if i < 0 || i >= TotalPages(len(items), size) {
		return nil
	}
	start := i * size
	end := min(start+size, len(items))
	return items[start:end]
}

// Pages partitions items in order. The last page may be short.
func Pages[T any](items []T, size int) [][]T {
	total := TotalPages(len(items), size)
	out := make([][]T, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, Page(items, size, i))
	}
	return out
}

// Padding is the number of empty slots needed to fill page i to size.
func Padding(n, size, i int) int {
	total := TotalPages(n, size)
	if i < 0 || i >= total {
		return 0
	}
	if i < total-1 {
		return 0
	}
	return total*size - n
}
