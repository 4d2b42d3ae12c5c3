package repositories

const (
	// DefaultPageSize is applied when a request does not specify perPage.
	DefaultPageSize = 20
)

// Page is a request for one window of a listing.
type Page struct {
	Number int
	Size   int
}

// NewPage normalises raw query values into a usable page window.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pager describes the window position of a returned listing.
type Pager struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// NewPager computes the total page count as ceil(count / page size).
func NewPager(page Page, count int64) Pager {
	total := int((count + int64(page.Size) - 1) / int64(page.Size))
	return Pager{Current: page.Number, Total: total}
}
