// Package ginserver exposes the day tally over HTTP.
package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vshulcz/daytally/internal/domain"
	"github.com/vshulcz/daytally/internal/services/audit"
	"github.com/vshulcz/daytally/internal/services/tally"
)

// Handler wires the tally service into gin endpoints.
type Handler struct {
	svc     *tally.Service
	started time.Time
}

// NewHandler returns a Handler for the given service.
func NewHandler(svc *tally.Service) *Handler {
	return &Handler{svc: svc, started: time.Now()}
}

type clickRequest struct {
	Action string `json:"action"`
}

// Today handles `GET /api/today`.
func (h *Handler) Today(c *gin.Context) {
	res, err := h.svc.Today(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Stats handles `GET /api/stats` with the three rolling series.
func (h *Handler) Stats(c *gin.Context) {
	report, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Click handles `POST /api/click` with an {"action": "add"|"sub"} payload.
func (h *Handler) Click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
	res, err := h.svc.Click(ctx, req.Action)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ClickAdd handles the HTML form `POST /click/add` and redirects home.
func (h *Handler) ClickAdd(c *gin.Context) {
	h.formClick(c, string(domain.Add))
}

// ClickSub handles the HTML form `POST /click/sub` and redirects home.
func (h *Handler) ClickSub(c *gin.Context) {
	h.formClick(c, string(domain.Sub))
}

func (h *Handler) formClick(c *gin.Context, action string) {
	ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
	if _, err := h.svc.Click(ctx, action); err != nil {
		httpError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Index renders the click page with today's counts.
func (h *Handler) Index(c *gin.Context) {
	today, err := h.svc.Today(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>day tally</title>")
	sb.WriteString("<style>body{font-family:system-ui,Arial,sans-serif;max-width:28rem;margin:3rem auto}")
	sb.WriteString("form{display:inline-block;margin-right:1rem}button{font-size:1.4rem;padding:.4rem 1.2rem}")
	sb.WriteString("table{border-collapse:collapse;margin:1rem 0}td,th{border:1px solid #ddd;padding:6px 10px}</style>")
	sb.WriteString("</head><body>")
	sb.WriteString("<h1>Day Tally</h1>")
	sb.WriteString("<p>" + today.Date + "</p>")

	sb.WriteString("<table><tr><th>add</th><th>sub</th><th>net</th></tr><tr><td>")
	sb.WriteString(strconv.FormatUint(today.AddCount, 10))
	sb.WriteString("</td><td>")
	sb.WriteString(strconv.FormatUint(today.SubCount, 10))
	sb.WriteString("</td><td>")
	sb.WriteString(strconv.FormatInt(today.Net, 10))
	sb.WriteString("</td></tr></table>")

	sb.WriteString("<form method='post' action='/click/add'><button>+1</button></form>")
	sb.WriteString("<form method='post' action='/click/sub'><button>-1</button></form>")
	sb.WriteString("<p><a href='/api/stats'>stats</a></p>")
	sb.WriteString("</body></html>")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}

// Ping proxies `GET /ping` to the storage health check.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "db ping error: %v", err)
		return
	}
	c.String(http.StatusOK, "ok")
}

func httpError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrInvalidDirection), errors.Is(err, domain.ErrInvalidDay):
		c.String(http.StatusBadRequest, "bad request")
	default:
		c.String(http.StatusInternalServerError, "internal error")
	}
}
