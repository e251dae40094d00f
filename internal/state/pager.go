package state

import "github.com/five82/callboard/internal/webhook"

// Pager tracks the page a listing view is showing. Navigation trusts the
// server's pagination metadata and never computes totals itself.
type Pager struct {
	Page  int // 1-based
	Limit int
}

// NewPager starts at page 1.
func NewPager(limit int) Pager {
	return Pager{Page: 1, Limit: limit}
}

// Next advances one page when the server reports more data. With no
// pagination metadata at all it stays put.
func (p *Pager) Next(info webhook.Pagination) bool {
	if !HasNext(p.current(), info) {
		return false
	}
	p.Page = p.current() + 1
	return true
}

// Prev moves back one page, stopping at 1.
func (p *Pager) Prev() bool {
	if p.current() <= 1 {
		p.Page = 1
		return false
	}
	p.Page = p.current() - 1
	return true
}

// Reset returns to the first page, typically after a filter change.
func (p *Pager) Reset() {
	p.Page = 1
}

func (p Pager) current() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// HasNext reports whether a page after page exists according to info.
// An explicit hasMore wins in both directions; otherwise totalPages decides.
func HasNext(page int, info webhook.Pagination) bool {
	if info.HasMore != nil {
		return *info.HasMore
	}
	return info.TotalPages.Int() > 0 && page < info.TotalPages.Int()
}
