// Package query holds the filter values repositories accept for list queries.
package query

import "time"

// PageFilter is a limit/offset window. A zero Limit means unlimited.
type PageFilter struct {
	Limit  int
	Offset int
}

// ListFilter combines paging with a free text search and an ordering of the
// form "field" or "-field".
type ListFilter struct {
	PageFilter
	Search   string
	Ordering string
}

// DateFilter bounds a date column inclusively. Zero values are open ends.
type DateFilter struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether no bound is set.
func (f DateFilter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero()
}

// Contains reports whether date falls inside the bounds.
func (f DateFilter) Contains(date time.Time) bool {
	if !f.From.IsZero() && date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && date.After(f.To) {
		return false
	}
	return true
}

type FilterOption func(*ListFilter)

func WithPage(limit, offset int) FilterOption {
	return func(f *ListFilter) {
		f.Limit = limit
		f.Offset = offset
	}
}

func WithSearch(search string) FilterOption {
	return func(f *ListFilter) {
		f.Search = search
	}
}

func WithOrdering(ordering string) FilterOption {
	return func(f *ListFilter) {
		f.Ordering = ordering
	}
}

func NewListFilter(opts ...FilterOption) ListFilter {
	var f ListFilter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}
