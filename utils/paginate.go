package utils

import (
	"strconv"
	"strings"
)

// Page describes one slice of an ordered listing.
// Numbers are 1-based and always within [1, NumPages].
type Page struct {
	Number   int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	NumPages int   `json:"num_pages"`
}

// Paginate resolves the raw page parameter against total items.
// Anything that is not a positive integer selects page 1, numbers past the
// end select the last page. An empty listing still has one (empty) page.
func Paginate(raw string, perPage int, total int64) Page {
	if perPage <= 0 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil, number <= 0:
		number = 1
	case number > numPages:
		number = numPages
	}

	return Page{Number: number, PerPage: perPage, Total: total, NumPages: numPages}
}

// Offset is the number of items before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the maximum number of items on this page.
func (p Page) Limit() int {
	return p.PerPage
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// Meta is the pagination block embedded in listing responses.
func (p Page) Meta() map[string]interface{} {
	return map[string]interface{}{
		"page":         p.Number,
		"per_page":     p.PerPage,
		"total":        p.Total,
		"num_pages":    p.NumPages,
		"has_next":     p.HasNext(),
		"has_previous": p.HasPrevious(),
	}
}
