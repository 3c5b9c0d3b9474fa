// Package pagination computes the page-number strip shown under list views.
package pagination

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// TotalPages returns the number of pages needed for total items.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Window returns the page numbers to display for the current page. The
// first and last pages are always present, together with current±siblings.
// Gaps are marked with Ellipsis; a gap of exactly one page shows that page
// instead. current is clamped into [1, totalPages].
func Window(current, totalPages, siblings int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	if siblings < 0 {
		siblings = 0
	}
	current = min(max(current, 1), totalPages)

	// first, last, current, siblings on both sides, and two gap markers
	if totalPages <= 2*siblings+5 {
		return span(1, totalPages)
	}

	left := max(current-siblings, 2)
	right := min(current+siblings, totalPages-1)
	if left == 3 {
		left = 2
	}
	if right == totalPages-2 {
		right = totalPages - 1
	}

	pages := make([]int, 0, right-left+5)
	pages = append(pages, 1)
	if left > 2 {
		pages = append(pages, Ellipsis)
	}
	pages = append(pages, span(left, right)...)
	if right < totalPages-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, totalPages)
}

func span(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, p)
	}
	return out
}
