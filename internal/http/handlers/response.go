// Package handlers provides the HTTP view controllers for the movie catalog.
//
// This file defines the shared response helper for failure pages. Server
// errors (>= 500) are logged with the request-scoped logger before the page
// is rendered, so every 5xx leaves a correlated trace in the log file.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcowell/go-movie-catalog/internal/http/middleware"
)

// failPage aborts the request and renders the generic error page with the
// given status and message.
func failPage(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("message", msg).
			Msg("page error")
	}

	c.HTML(status, "error.html", ErrorView{
		Status:    status,
		Message:   msg,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	})
	c.Abort()
}

// FailPage is the exported variant of failPage, used by router fallbacks
// (NoRoute/NoMethod) without depending on unexported helpers.
func FailPage(c *gin.Context, status int, msg string) { failPage(c, status, msg) }
