// Diagnostics view controller: a debug page dumping host/platform metadata
// and the tail of the application log file. It reads process-external state
// only and never touches the data access layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcowell/go-movie-catalog/internal/http/middleware"
	"github.com/mcowell/go-movie-catalog/internal/sysutil"
)

// Diagnostics renders the platform snapshot and the last 20 lines of the log
// file. A missing log file just omits that section; an unreadable one is
// logged and omitted rather than failing the whole page.
func (h *Handlers) Diagnostics(c *gin.Context) {
	tail, err := sysutil.TailFile(h.LogFile, 20)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("file", h.LogFile).Msg("could not tail log file")
		tail = nil
	}

	c.HTML(http.StatusOK, "diagnostics.html", DiagnosticsView{
		Platform:    sysutil.Snapshot(),
		Log:         tail,
		GeneratedAt: time.Now().UTC(),
	})
}
