// Package handlers provides the HTTP view controllers for the movie catalog.
//
// This file defines the typed view-models handed to the HTML renderer. They
// carry no behavior: every href and derived number is computed here, in the
// controller layer, so templates only read fields.
package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/mcowell/go-movie-catalog/internal/domain"
	"github.com/mcowell/go-movie-catalog/internal/sysutil"
	"github.com/mcowell/go-movie-catalog/internal/utils"
)

// Pagination carries pagination metadata and precomputed navigation links
// for the list and search pages. Search, when non-empty, is preserved in the
// links so page navigation keeps the active query.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevHref   string
	NextHref   string
	Search     string
}

// NewPagination derives the full pagination view-model for one page.
// basePath is the route the links point back to ("/movies" or "/search").
func NewPagination(basePath, search string, page, perPage int, total int64) Pagination {
	totalPages := utils.TotalPages(total, perPage)
	p := Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Search:     search,
	}
	if p.HasPrev {
		p.PrevHref = pageHref(basePath, search, page-1, perPage)
	}
	if p.HasNext {
		p.NextHref = pageHref(basePath, search, page+1, perPage)
	}
	return p
}

// pageHref builds a link to one page, URL-encoding the search term.
func pageHref(basePath, search string, page, perPage int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search_string", search)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return basePath + "?" + q.Encode()
}

// ListView backs both the full catalog page and the search results page.
// Exactly one of Movies or Message is populated: a non-empty Message means
// the page renders a notice ("no results", "error getting results") instead
// of rows.
type ListView struct {
	Heading    string
	Movies     []domain.Movie
	Pagination Pagination
	Message    string
}

// DetailView backs the movie detail page. NotFound marks an id that matched
// no record; the template renders a dedicated not-found state for it.
type DetailView struct {
	Movie    *domain.Movie
	NotFound bool
	MovieID  string
}

// DiagnosticsView backs the diagnostics page: a platform snapshot and,
// when the log file exists, its tail.
type DiagnosticsView struct {
	Platform    sysutil.PlatformStats
	Log         *sysutil.LogTail
	GeneratedAt time.Time
}

// ErrorView backs the generic error page.
type ErrorView struct {
	Status    int
	Message   string
	RequestID string
}
