package listings

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and limit query values. Missing, malformed or out of
// range values fall back to page 1 and DefaultPageSize.
func ParsePage(page, limit string) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n >= 1 {
		p.Number = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n >= 1 {
		p.Size = n
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Pages returns the page count for total rows at this page size.
func (p Page) Pages(total int64) int {
	if p.Size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
