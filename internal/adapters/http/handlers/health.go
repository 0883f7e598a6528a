// Package handlers provides HTTP request handlers for the quote feed.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// BuildInfo is stamped into the binary with -ldflags and served on /-/build.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills GoVersion from the running binary.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandler serves the operational endpoints under /-/.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	feed      ports.QuoteFeed
}

// NewHealthHandler creates the handler. feed may be nil, in which case
// readiness carries no sync section.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, feed ports.QuoteFeed) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		feed:      feed,
	}
}

// Register mounts /-/live, /-/ready, /-/build and /-/metrics.
func (h *HealthHandler) Register(engine *gin.Engine) {
	ops := engine.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.Build)
	ops.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness answers 200 while the process runs. It checks nothing else.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
	Sync   *syncStatus                   `json:"sync,omitempty"`
}

// syncStatus is informational and never changes the readiness verdict: a
// feed showing cached quotes while the source is down is still serving.
type syncStatus struct {
	Phase      string `json:"phase"`
	Quotes     int    `json:"quotes"`
	Refreshing bool   `json:"refreshing"`
}

func newSyncStatus(state domain.SyncState) *syncStatus {
	return &syncStatus{
		Phase:      state.Phase().String(),
		Quotes:     state.Len(),
		Refreshing: state.Refreshing(),
	}
}

// Readiness answers 503 when any registered check is unhealthy. The quote
// source check reads circuit state only, so polling it costs no API call.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	resp := readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	}

	if h.feed != nil {
		resp.Sync = newSyncStatus(h.feed.State())
	}

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

// Build serves the stamped build information.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}
