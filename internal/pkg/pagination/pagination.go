package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// FromQuery reads page/limit query parameters, falling back to page 1 and DefaultLimit.
func FromQuery(q url.Values) Params {
	return FromQueryWithLimit(q, DefaultLimit)
}

// FromQueryWithLimit is FromQuery with a resource-specific default page size.
func FromQueryWithLimit(q url.Values, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}
	return p.Normalize()
}

func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

func (p Params) TotalPages(total int64) int {
	p = p.Normalize()
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
