package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mcowell/go-movie-catalog/internal/domain"
	"github.com/mcowell/go-movie-catalog/internal/services"
	"github.com/mcowell/go-movie-catalog/web"
)

// ---------- test router + service stub ----------

// newTestRouter builds a gin engine with the embedded templates loaded,
// mirroring how router.go wires the renderer.
func newTestRouter(t *testing.T, h *Handlers) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))
	r.GET("/", h.Index)
	r.GET("/movies", h.ListMovies)
	r.GET("/search", h.Search)
	r.GET("/movie/:id", h.MovieDetails)
	r.POST("/movie/:id", h.MovieDetails)
	r.GET("/diagnostics", h.Diagnostics)
	return r
}

// Flexible catalog service stub; nil funcs return empty results.
type stubCatalogSvc struct {
	listPage   func(context.Context, int, int) ([]domain.Movie, int64, error)
	searchPage func(context.Context, string, int, int) ([]domain.Movie, int64, error)
	get        func(context.Context, int64) (*domain.Movie, error)

	searchCalls int
}

func (s *stubCatalogSvc) ListPage(ctx context.Context, page, perPage int) ([]domain.Movie, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, page, perPage)
	}
	return nil, 0, nil
}

func (s *stubCatalogSvc) SearchPage(ctx context.Context, term string, page, perPage int) ([]domain.Movie, int64, error) {
	s.searchCalls++
	if s.searchPage != nil {
		return s.searchPage(ctx, term, page, perPage)
	}
	return nil, 0, nil
}

func (s *stubCatalogSvc) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, services.ErrMovieNotFound
}

func sampleMovies(n int) []domain.Movie {
	out := make([]domain.Movie, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Movie{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Movie %02d", i+1),
			ReleaseYear: "1999",
			Genre:       "Sci-Fi",
			Director:    "Someone",
			Rating:      "PG-13",
		})
	}
	return out
}

func get(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

// ---------- helpers ----------

func TestClampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(&stubCatalogSvc{}, 10, 100, "")

	cases := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 10},
		{"?page=3&per_page=25", 3, 25},
		{"?page=-5&per_page=9999", 1, 100},
		{"?page=abc&per_page=xyz", 1, 10},
		{"?page=0&per_page=0", 1, 1},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		p, pp := h.clampPagination(c)
		if p != tc.wantPage || pp != tc.wantPerPage {
			t.Fatalf("clamp(%q) = (%d,%d), want (%d,%d)", tc.query, p, pp, tc.wantPage, tc.wantPerPage)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	h := New(&stubCatalogSvc{}, 0, -1, "app.log")
	if h.DefaultPerPage != 10 {
		t.Fatalf("DefaultPerPage = %d", h.DefaultPerPage)
	}
	if h.MaxPerPage != 10 {
		t.Fatalf("MaxPerPage = %d", h.MaxPerPage)
	}
}

// ---------- Index ----------

func TestIndex(t *testing.T) {
	h := New(&stubCatalogSvc{}, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("index -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Movie Catalog") {
		t.Fatalf("index body missing title: %s", w.Body.String())
	}
}

// ---------- ListMovies ----------

func TestListMovies_SuccessWithPagination(t *testing.T) {
	var gotPage, gotPerPage int
	svc := &stubCatalogSvc{
		listPage: func(_ context.Context, page, perPage int) ([]domain.Movie, int64, error) {
			gotPage, gotPerPage = page, perPage
			return sampleMovies(10), 35, nil
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movies?page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	if gotPage != 2 || gotPerPage != 10 {
		t.Fatalf("service called with page=%d perPage=%d", gotPage, gotPerPage)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Movie 01") {
		t.Fatalf("body missing row: %s", body)
	}
	if !strings.Contains(body, "Page 2 of 4") {
		t.Fatalf("body missing page counter: %s", body)
	}
	if !strings.Contains(body, "/movies?page=1&amp;per_page=10") {
		t.Fatalf("body missing prev link: %s", body)
	}
	if !strings.Contains(body, "/movies?page=3&amp;per_page=10") {
		t.Fatalf("body missing next link: %s", body)
	}
}

func TestListMovies_EmptyTable(t *testing.T) {
	h := New(&stubCatalogSvc{}, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movies")
	if w.Code != http.StatusOK {
		t.Fatalf("empty list -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No movies found.") {
		t.Fatalf("expected empty notice, got: %s", w.Body.String())
	}
}

func TestListMovies_DatabaseFault(t *testing.T) {
	svc := &stubCatalogSvc{
		listPage: func(context.Context, int, int) ([]domain.Movie, int64, error) {
			return nil, 0, errors.New("dial tcp: connection refused")
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movies")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("fault -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error getting results.") {
		t.Fatalf("expected error page, got: %s", w.Body.String())
	}
}

// ---------- Search ----------

func TestSearch_BlankTermRedirectsWithoutQuery(t *testing.T) {
	svc := &stubCatalogSvc{}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	for _, target := range []string{"/search", "/search?search_string=", "/search?search_string=%20%20"} {
		w := get(t, r, target)
		if w.Code != http.StatusFound {
			t.Fatalf("%s -> %d", target, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Fatalf("%s redirected to %q", target, loc)
		}
	}
	if svc.searchCalls != 0 {
		t.Fatalf("blank searches hit the service %d times", svc.searchCalls)
	}
}

func TestSearch_TermAndPaginationForwarded(t *testing.T) {
	var gotTerm string
	svc := &stubCatalogSvc{
		searchPage: func(_ context.Context, term string, page, perPage int) ([]domain.Movie, int64, error) {
			gotTerm = term
			return sampleMovies(3), 3, nil
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/search?search_string=the+matrix")
	if w.Code != http.StatusOK {
		t.Fatalf("search -> %d", w.Code)
	}
	if gotTerm != "the matrix" {
		t.Fatalf("term = %q", gotTerm)
	}
	if !strings.Contains(w.Body.String(), "search results") {
		t.Fatalf("body missing heading: %s", w.Body.String())
	}
}

func TestSearch_NoMatches(t *testing.T) {
	h := New(&stubCatalogSvc{}, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/search?search_string=zzzz")
	if w.Code != http.StatusOK {
		t.Fatalf("no-match search -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No matches found for your search.") {
		t.Fatalf("expected no-match notice, got: %s", w.Body.String())
	}
}

func TestSearch_PaginationPreservesTerm(t *testing.T) {
	svc := &stubCatalogSvc{
		searchPage: func(context.Context, string, int, int) ([]domain.Movie, int64, error) {
			return sampleMovies(10), 25, nil
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/search?search_string=matrix&page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("search -> %d", w.Code)
	}
	body := w.Body.String()
	// Both nav links must keep the active query.
	if !strings.Contains(body, "search_string=matrix") {
		t.Fatalf("nav links dropped the search term: %s", body)
	}
	if !strings.Contains(body, "/search?page=3&amp;per_page=10&amp;search_string=matrix") {
		t.Fatalf("body missing next link: %s", body)
	}
}

func TestSearch_DatabaseFault(t *testing.T) {
	svc := &stubCatalogSvc{
		searchPage: func(context.Context, string, int, int) ([]domain.Movie, int64, error) {
			return nil, 0, errors.New("boom")
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/search?search_string=matrix")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("fault -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error getting results.") {
		t.Fatalf("expected error page, got: %s", w.Body.String())
	}
}

// ---------- MovieDetails ----------

func TestMovieDetails_Success(t *testing.T) {
	svc := &stubCatalogSvc{
		get: func(_ context.Context, id int64) (*domain.Movie, error) {
			if id != 42 {
				t.Fatalf("service got id %d", id)
			}
			return &domain.Movie{ID: 42, Title: "The Matrix", ReleaseYear: "1999"}, nil
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movie/42")
	if w.Code != http.StatusOK {
		t.Fatalf("detail -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "The Matrix") {
		t.Fatalf("body missing title: %s", w.Body.String())
	}
}

func TestMovieDetails_PostAlsoServed(t *testing.T) {
	svc := &stubCatalogSvc{
		get: func(context.Context, int64) (*domain.Movie, error) {
			return &domain.Movie{ID: 7, Title: "Alien"}, nil
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/movie/7", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST detail -> %d", w.Code)
	}
}

func TestMovieDetails_NotFound(t *testing.T) {
	h := New(&stubCatalogSvc{}, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movie/9999")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No movie exists with id 9999") {
		t.Fatalf("expected not-found state, got: %s", w.Body.String())
	}
}

func TestMovieDetails_BadID(t *testing.T) {
	h := New(&stubCatalogSvc{}, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movie/abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Movie id must be an integer.") {
		t.Fatalf("expected bad-id message, got: %s", w.Body.String())
	}
}

func TestMovieDetails_DatabaseFault(t *testing.T) {
	svc := &stubCatalogSvc{
		get: func(context.Context, int64) (*domain.Movie, error) {
			return nil, errors.New("boom")
		},
	}
	h := New(svc, 10, 100, "")
	r := newTestRouter(t, h)

	w := get(t, r, "/movie/1")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("fault -> %d", w.Code)
	}
}
