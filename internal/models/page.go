package models

const (
	DefaultPageFrom = 0
	DefaultPageSize = 10
)

// Page describes from/size pagination. The window starts at the page
// containing the from-th element: offset = (from / size) * size.
type Page struct {
	From int
	Size int
}

func NewPage(from, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if from < 0 {
		from = DefaultPageFrom
	}
	return Page{From: from, Size: size}
}

func (p Page) Offset() int {
	return (p.From / p.Size) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}
