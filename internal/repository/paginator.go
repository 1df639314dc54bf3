package repository

import (
	"net/url"
	"strconv"
)

const (
	// LimitParam and OffsetParam are the query parameters carrying pagination state.
	LimitParam  = "limit"
	OffsetParam = "offset"
)

// Paginator computes the neighbour page links of a limit/offset page.
type Paginator struct {
	Limit  int
	Offset int
	Count  int
}

// NewPaginator creates a Paginator for query whose unpaginated result has count rows.
func NewPaginator(query Query, count int) Paginator {
	return Paginator{
		Limit:  query.Limit,
		Offset: query.Offset,
		Count:  count,
	}
}

// Next returns the link to the following page, or nil on the last page.
func (p Paginator) Next(current *url.URL) *string {
	if p.Offset >= p.Count-p.Limit {
		return nil
	}
	return p.link(current, p.Offset+p.Limit, false)
}

// Previous returns the link to the preceding page, or nil on the first page.
func (p Paginator) Previous(current *url.URL) *string {
	if p.Offset <= 0 {
		return nil
	}
	if p.Offset-p.Limit <= 0 {
		return p.link(current, 0, true)
	}
	return p.link(current, p.Offset-p.Limit, false)
}

func (p Paginator) link(current *url.URL, offset int, dropOffset bool) *string {
	u := *current
	values := u.Query()
	values.Set(LimitParam, strconv.Itoa(p.Limit))
	if dropOffset {
		values.Del(OffsetParam)
	} else {
		values.Set(OffsetParam, strconv.Itoa(offset))
	}
	u.RawQuery = values.Encode()
	link := u.String()
	return &link
}
