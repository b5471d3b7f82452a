package service

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100

	// MaxPage keeps (page-1)*per_page within int
	MaxPage = math.MaxInt / MaxPerPage
)

// PageRequest is a validated page position.
type PageRequest struct {
	Page    int
	PerPage int
}

// ParsePageRequest reads raw page and per_page query values. Missing, malformed or
// non-positive values fall back to the defaults; page is clamped to MaxPage and
// per_page to MaxPerPage.
func ParsePageRequest(page, perPage string) PageRequest {
	req := PageRequest{Page: DefaultPage, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n >= 1 {
		req.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(perPage)); err == nil && n >= 1 {
		req.PerPage = min(n, MaxPerPage)
	}
	return req
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	p.Page = min(p.Page, MaxPage)
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	p.PerPage = min(p.PerPage, MaxPerPage)
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
}

func newPagination(req PageRequest, total int64) Pagination {
	perPage := int64(req.PerPage)
	return Pagination{
		Page:    req.Page,
		PerPage: req.PerPage,
		Total:   total,
		Pages:   (total + perPage - 1) / perPage,
	}
}
