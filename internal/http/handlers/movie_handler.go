// Movie view controllers.
//
// This file exposes the server-rendered pages for the catalog:
//   - GET       /            (static landing page)
//   - GET       /movies      (full catalog, paginated)
//   - GET       /search      (partial-match search, paginated)
//   - GET|POST  /movie/:id   (single movie detail)
//
// Controllers are transport-thin: they derive pagination parameters, call
// the catalog service, and translate results into view-models. Empty result
// sets, not-found ids, and database faults map to three distinct states
// rather than one shared error message.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mcowell/go-movie-catalog/internal/domain"
	"github.com/mcowell/go-movie-catalog/internal/http/middleware"
	"github.com/mcowell/go-movie-catalog/internal/services"
	"github.com/mcowell/go-movie-catalog/internal/utils"
)

// CatalogService defines the catalog read operations consumed by the view
// controllers. Implementations must be safe for concurrent use and honor the
// provided context.
type CatalogService interface {
	// ListPage returns one page of the whole catalog plus the total row count.
	ListPage(ctx context.Context, page, perPage int) ([]domain.Movie, int64, error)
	// SearchPage returns one page of rows matching term plus the match count.
	SearchPage(ctx context.Context, term string, page, perPage int) ([]domain.Movie, int64, error)
	// Get fetches one movie by id, or services.ErrMovieNotFound.
	Get(ctx context.Context, id int64) (*domain.Movie, error)
}

// Handlers groups the HTTP endpoints of the application.
type Handlers struct {
	svc CatalogService

	// DefaultPerPage / MaxPerPage bound the per_page query parameter.
	DefaultPerPage int
	MaxPerPage     int

	// LogFile is the path tailed by the diagnostics page.
	LogFile string
}

// New constructs a Handlers instance bound to the given catalog service.
func New(svc CatalogService, defaultPerPage, maxPerPage int, logFile string) *Handlers {
	if defaultPerPage < 1 {
		defaultPerPage = 10
	}
	if maxPerPage < defaultPerPage {
		maxPerPage = defaultPerPage
	}
	return &Handlers{
		svc:            svc,
		DefaultPerPage: defaultPerPage,
		MaxPerPage:     maxPerPage,
		LogFile:        logFile,
	}
}

// clampPagination parses and bounds the page and per_page query params,
// returning (page, perPage). Defaults: page=1, per_page=DefaultPerPage.
func (h *Handlers) clampPagination(c *gin.Context) (page, perPage int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage = utils.AtoiDefault(c.Query("per_page"), h.DefaultPerPage)
	if perPage < 1 {
		perPage = 1
	}
	if perPage > h.MaxPerPage {
		perPage = h.MaxPerPage
	}
	return
}

// Index renders the static landing page. No data access.
func (h *Handlers) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// ListMovies renders one page of the full catalog ordered by title.
//
// An empty table renders the list page with a "no movies" notice (200); a
// database fault renders the error state with a 500. The two are distinct.
func (h *Handlers) ListMovies(c *gin.Context) {
	page, perPage := h.clampPagination(c)

	movies, total, err := h.svc.ListPage(c.Request.Context(), page, perPage)
	if err != nil {
		failPage(c, http.StatusInternalServerError, "Error getting results.")
		return
	}

	if len(movies) == 0 {
		c.HTML(http.StatusOK, "movies.html", ListView{
			Heading: "All movies",
			Message: "No movies found.",
		})
		return
	}

	c.HTML(http.StatusOK, "movies.html", ListView{
		Heading:    "All movies",
		Movies:     movies,
		Pagination: NewPagination("/movies", "", page, perPage, total),
	})
}

// Search renders one page of partial-match results against title or release
// year. A blank search_string redirects to the landing page without touching
// the database; zero matches render a notice, not an error.
func (h *Handlers) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search_string"))
	if term == "" {
		middleware.LoggerFrom(c).Info().Msg("no search string provided")
		c.Redirect(http.StatusFound, "/")
		return
	}
	page, perPage := h.clampPagination(c)

	movies, total, err := h.svc.SearchPage(c.Request.Context(), term, page, perPage)
	if err != nil {
		failPage(c, http.StatusInternalServerError, "Error getting results.")
		return
	}

	if len(movies) == 0 {
		c.HTML(http.StatusOK, "movies.html", ListView{
			Heading: fmt.Sprintf("%q search results", term),
			Message: "No matches found for your search.",
		})
		return
	}

	c.HTML(http.StatusOK, "movies.html", ListView{
		Heading:    fmt.Sprintf("%q search results", term),
		Movies:     movies,
		Pagination: NewPagination("/search", term, page, perPage, total),
	})
}

// MovieDetails renders a single movie by its path id. Non-numeric ids are a
// 400; an id matching no record renders the detail page's not-found state
// with a 404 rather than an empty page.
func (h *Handlers) MovieDetails(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		failPage(c, http.StatusBadRequest, "Movie id must be an integer.")
		return
	}

	movie, err := h.svc.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrMovieNotFound):
		c.HTML(http.StatusNotFound, "movie-details.html", DetailView{
			NotFound: true,
			MovieID:  raw,
		})
		return
	case err != nil:
		failPage(c, http.StatusInternalServerError, "Error getting results.")
		return
	}

	c.HTML(http.StatusOK, "movie-details.html", DetailView{
		Movie:   movie,
		MovieID: raw,
	})
}
