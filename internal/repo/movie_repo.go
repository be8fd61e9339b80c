// Package repo implements the data access layer over the movies relation,
// backed by GORM. This file provides the read-only query functions for the
// Movie model. They follow the "thin repository" approach: no business
// logic, only query composition over a caller-supplied handle.
//
// Error semantics:
//   - When a movie is not found, GetMovie returns ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - On DB errors (connectivity, malformed query, driver faults) the raw
//     gorm error is logged and propagated; callers do not retry.
//
// Every function logs the query it runs and its outcome before returning.
package repo

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mcowell/go-movie-catalog/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// dbOps counts data access operations by outcome, complementing the HTTP
// metrics emitted by the middleware layer.
var dbOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_operations_total",
		Help: "Total number of database operations by outcome.",
	},
	[]string{"op", "outcome"},
)

func init() {
	prometheus.MustRegister(dbOps)
}

// observe records the outcome of one repository operation.
func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	dbOps.WithLabelValues(op, outcome).Inc()
}

// CountMovies returns the total row count of the movies relation, with no
// filter applied. The total reflects the entire table, not the page.
func CountMovies(ctx context.Context, db *gorm.DB) (int64, error) {
	log.Info().Str("query", "SELECT COUNT(*) FROM movies").Msg("counting movies")

	var total int64
	err := db.WithContext(ctx).Model(&domain.Movie{}).Count(&total).Error
	observe("count_movies", err)
	if err != nil {
		log.Error().Err(err).Msg("error counting movies")
		return 0, err
	}
	return total, nil
}

// ListMoviesPage returns one page of the movies relation ordered by title
// ascending, bound by limit/offset.
func ListMoviesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Movie, error) {
	log.Info().
		Str("query", "SELECT * FROM movies ORDER BY title ASC LIMIT ? OFFSET ?").
		Int("limit", limit).
		Int("offset", offset).
		Msg("listing movies")

	var out []domain.Movie
	err := db.WithContext(ctx).
		Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	observe("list_movies", err)
	if err != nil {
		log.Error().Err(err).Msg("error retrieving movie data")
		return nil, err
	}
	log.Info().Int("rows", len(out)).Msg("retrieved movies")
	return out, nil
}

// CountMoviesMatching returns the number of rows whose title or release year
// matches pattern. The pattern must already carry its wildcard markers
// (e.g. "%matrix%"); this function binds it verbatim.
func CountMoviesMatching(ctx context.Context, db *gorm.DB, pattern string) (int64, error) {
	log.Info().
		Str("query", "SELECT COUNT(*) FROM movies WHERE title LIKE ? OR releaseYear LIKE ?").
		Msg("counting search matches")

	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Movie{}).
		Where("title LIKE ? OR releaseYear LIKE ?", pattern, pattern).
		Count(&total).Error
	observe("count_search", err)
	if err != nil {
		log.Error().Err(err).Msg("error counting search matches")
		return 0, err
	}
	return total, nil
}

// SearchMoviesPage returns one page of rows whose title or release year
// matches pattern, ordered by title ascending and bound by limit/offset.
func SearchMoviesPage(ctx context.Context, db *gorm.DB, pattern string, offset, limit int) ([]domain.Movie, error) {
	log.Info().
		Str("query", "SELECT * FROM movies WHERE title LIKE ? OR releaseYear LIKE ? ORDER BY title ASC LIMIT ? OFFSET ?").
		Int("limit", limit).
		Int("offset", offset).
		Msg("searching movies")

	var out []domain.Movie
	err := db.WithContext(ctx).
		Where("title LIKE ? OR releaseYear LIKE ?", pattern, pattern).
		Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	observe("search_movies", err)
	if err != nil {
		log.Error().Err(err).Msg("error retrieving movie data")
		return nil, err
	}
	log.Info().Int("rows", len(out)).Msg("retrieved search results")
	return out, nil
}

// GetMovie fetches a single movie by its identifier. If the record does not
// exist it returns ErrNotFound; absence is an expected state, not a fault.
func GetMovie(ctx context.Context, db *gorm.DB, id int64) (*domain.Movie, error) {
	log.Info().
		Str("query", "SELECT * FROM movies WHERE movieId = ?").
		Int64("movie_id", id).
		Msg("fetching movie")

	var m domain.Movie
	err := db.WithContext(ctx).Where("movieId = ?", id).First(&m).Error
	observe("get_movie", err)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn().Int64("movie_id", id).Msg("no movie found")
		return nil, ErrNotFound
	case err != nil:
		log.Error().Err(err).Int64("movie_id", id).Msg("error retrieving movie")
		return nil, err
	}
	log.Info().Int64("movie_id", id).Msg("retrieved movie")
	return &m, nil
}
