package repository

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPaginationLimit is the default number of items per page.
	DefaultPaginationLimit = 10
	maxPaginationLimit     = 100
)

// Query describes a filtered, optionally paginated product listing.
type Query struct {
	// Name is an exact match on the product name.
	Name string

	// Search terms must each match name or description, case-insensitively.
	Search []string

	// OnSale applies the sale filter evaluated at Now.
	OnSale bool
	Now    time.Time

	// Limit of 0 means no limit.
	Limit  int
	Offset int
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) WithName(name string) *Query {
	q.Name = name
	return q
}

// WithSearch splits raw on whitespace and commas into search terms.
func (q *Query) WithSearch(raw string) *Query {
	raw = strings.ReplaceAll(raw, "\x00", "")
	raw = strings.ReplaceAll(raw, ",", " ")
	q.Search = strings.Fields(raw)
	return q
}

func (q *Query) WithOnSale(now time.Time) *Query {
	q.OnSale = true
	q.Now = now
	return q
}

// ApplyPagination sets limit and offset from raw query values. Missing or invalid
// values fall back to the defaults, the limit is capped at the maximum page size.
func (q *Query) ApplyPagination(limit, offset string) {
	q.Limit = DefaultPaginationLimit
	if l, err := strconv.Atoi(limit); err == nil && l > 0 {
		q.Limit = min(maxPaginationLimit, l)
	}

	q.Offset = 0
	if o, err := strconv.Atoi(offset); err == nil && o > 0 {
		q.Offset = o
	}
}
