// Package services – CatalogService
//
// This file implements the CatalogService, the read-side of the movie
// catalog. It derives pagination bounds, constructs the wildcard search
// pattern, and coordinates the data access layer: every operation acquires
// its own database connection through a repo.Connector and releases it
// before returning. Connections are never reused across operations.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mcowell/go-movie-catalog/internal/domain"
	"github.com/mcowell/go-movie-catalog/internal/repo"
	"github.com/mcowell/go-movie-catalog/internal/utils"
)

// MovieRepo defines the repository contract required by CatalogService.
// The production implementation is the free functions in the repo package;
// tests substitute fakes.
type MovieRepo interface {
	// CountMovies returns the unfiltered row count of the movies relation.
	CountMovies(ctx context.Context, db *gorm.DB) (int64, error)

	// ListMoviesPage returns one page ordered by title ascending.
	ListMoviesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Movie, error)

	// CountMoviesMatching returns the row count restricted to the search predicate.
	CountMoviesMatching(ctx context.Context, db *gorm.DB, pattern string) (int64, error)

	// SearchMoviesPage returns one page of rows matching the search predicate.
	SearchMoviesPage(ctx context.Context, db *gorm.DB, pattern string, offset, limit int) ([]domain.Movie, error)

	// GetMovie fetches a single movie by id, or repo.ErrNotFound.
	GetMovie(ctx context.Context, db *gorm.DB, id int64) (*domain.Movie, error)
}

// CatalogService exposes the three read operations behind the list, search,
// and detail views. It is safe for concurrent use: it holds no mutable state
// beyond its configuration.
type CatalogService struct {
	// Conn hands out request-scoped connections.
	Conn repo.Connector
	// Repo is the movie repository used by this service.
	Repo MovieRepo

	// DefaultPerPage applies when a page size is absent or invalid.
	DefaultPerPage int
}

// gormRepo adapts the repo package's free functions to the MovieRepo
// interface, keeping the service decoupled from the concrete package while
// reusing the existing functions.
type gormRepo struct{}

func (gormRepo) CountMovies(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountMovies(ctx, db)
}

func (gormRepo) ListMoviesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Movie, error) {
	return repo.ListMoviesPage(ctx, db, offset, limit)
}

func (gormRepo) CountMoviesMatching(ctx context.Context, db *gorm.DB, pattern string) (int64, error) {
	return repo.CountMoviesMatching(ctx, db, pattern)
}

func (gormRepo) SearchMoviesPage(ctx context.Context, db *gorm.DB, pattern string, offset, limit int) ([]domain.Movie, error) {
	return repo.SearchMoviesPage(ctx, db, pattern, offset, limit)
}

func (gormRepo) GetMovie(ctx context.Context, db *gorm.DB, id int64) (*domain.Movie, error) {
	return repo.GetMovie(ctx, db, id)
}

// NewCatalogService constructs a CatalogService over the given connector.
func NewCatalogService(conn repo.Connector, defaultPerPage int) *CatalogService {
	if defaultPerPage < 1 {
		defaultPerPage = 10
	}
	return &CatalogService{
		Conn:           conn,
		Repo:           gormRepo{},
		DefaultPerPage: defaultPerPage,
	}
}

// normalize coerces page/perPage to valid values: page >= 1, perPage >= 1
// (falling back to the configured default).
func (s *CatalogService) normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.DefaultPerPage
	}
	return page, perPage
}

// ListPage returns one page of the whole catalog ordered by title ascending,
// plus the total row count.
//
// Contract note: the total is the unfiltered size of the movies relation,
// obtained independently of the limit/offset query. For this unfiltered list
// the two coincide; the count query carries no predicate either way.
func (s *CatalogService) ListPage(ctx context.Context, page, perPage int) ([]domain.Movie, int64, error) {
	page, perPage = s.normalize(page, perPage)
	offset := utils.Offset(page, perPage)

	db, release, err := s.Conn.Open(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer release()

	total, err := s.Repo.CountMovies(ctx, db)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}

	rows, err := s.Repo.ListMoviesPage(ctx, db, offset, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	return rows, total, nil
}

// SearchPage returns one page of rows whose title or release year partially
// matches term, plus the count of all matching rows. The term is wrapped in
// wildcard markers here; callers pass it raw.
func (s *CatalogService) SearchPage(ctx context.Context, term string, page, perPage int) ([]domain.Movie, int64, error) {
	if strings.TrimSpace(term) == "" {
		return nil, 0, ErrEmptySearch
	}
	page, perPage = s.normalize(page, perPage)
	offset := utils.Offset(page, perPage)
	pattern := "%" + term + "%"

	db, release, err := s.Conn.Open(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("search movies: %w", err)
	}
	defer release()

	total, err := s.Repo.CountMoviesMatching(ctx, db, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("search movies: %w", err)
	}
	if total == 0 {
		return []domain.Movie{}, 0, nil
	}

	rows, err := s.Repo.SearchMoviesPage(ctx, db, pattern, offset, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("search movies: %w", err)
	}
	return rows, total, nil
}

// Get fetches a single movie by id. Absent ids map to ErrMovieNotFound so
// handlers can render a not-found page rather than a server error.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	db, release, err := s.Conn.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	defer release()

	m, err := s.Repo.GetMovie(ctx, db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}
