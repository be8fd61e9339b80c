// Package services defines the business logic for the movie catalog.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing pages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrMovieNotFound indicates that the requested movie id has no matching
	// record. It is an expected state, not a database fault.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrEmptySearch is returned when a search is attempted with a blank
	// term. Handlers redirect to the landing page instead of querying.
	ErrEmptySearch = errors.New("search term is empty")
)
