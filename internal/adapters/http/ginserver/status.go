package ginserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"
)

type statusResponse struct {
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaysTracked   int           `json:"days_tracked"`
	Memory        *statusMemory `json:"memory,omitempty"`
}

type statusMemory struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// Status handles `GET /status` with process uptime, tracked-day count, and
// host memory readings. Memory probing failures degrade to an omitted field
// rather than an error response.
func (h *Handler) Status(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	resp := statusResponse{
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		DaysTracked:   len(snap.Days),
	}
	if vm, err := mem.VirtualMemoryWithContext(c.Request.Context()); err == nil {
		resp.Memory = &statusMemory{
			TotalBytes:  vm.Total,
			UsedBytes:   vm.Used,
			UsedPercent: vm.UsedPercent,
		}
	}
	c.JSON(http.StatusOK, resp)
}
