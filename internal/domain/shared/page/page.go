package page

// Page addresses a slice of an ordered result set. From is a zero-based
// offset, Size the page length. Offsets that are not exact multiples of Size
// alias onto the page of the nearest lower multiple; callers rely on this.
type Page struct {
	From int
	Size int
}

// Index returns the page number From falls into.
func (p Page) Index() int {
	if p.Size <= 0 {
		return 0
	}
	return p.From / p.Size
}

// Offset returns the element offset of the page start.
func (p Page) Offset() int {
	return p.Index() * p.Size
}

// Bounds clamps the page window to a collection of total elements.
func (p Page) Bounds(total int) (start, end int) {
	if p.Size <= 0 {
		return 0, total
	}
	start = p.Offset()
	if start > total {
		start = total
	}
	end = start + p.Size
	if end > total {
		end = total
	}
	return start, end
}
