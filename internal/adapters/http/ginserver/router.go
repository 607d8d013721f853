package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the tally routes and the provided
// middlewares. `/api/v1` mirrors `/api` for older clients.
func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", h.Index)
	r.POST("/click/add", h.ClickAdd)
	r.POST("/click/sub", h.ClickSub)

	r.GET("/ping", h.Ping)
	r.GET("/status", h.Status)

	for _, g := range []*gin.RouterGroup{r.Group("/api"), r.Group("/api/v1")} {
		g.GET("/today", h.Today)
		g.GET("/stats", h.Stats)
		g.POST("/click", h.Click)
	}

	return r
}
