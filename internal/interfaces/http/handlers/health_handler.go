package handlers

import (
	"net/http"
	"time"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	version string
	catalog *cellline.Catalog
	started time.Time
}

// NewHealthHandler builds the handler; catalog may be nil in tests.
func NewHealthHandler(version string, catalog *cellline.Catalog) *HealthHandler {
	return &HealthHandler{version: version, catalog: catalog, started: time.Now()}
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	Features      []string `json:"features"`
	UptimeSeconds float64  `json:"uptimeSeconds"`
	CellLines     int      `json:"cellLines"`
}

// serviceFeatures names the modeling capabilities this build ships.
var serviceFeatures = []string{
	"Cell cycle modeling",
	"PK/PD simulation",
	"Microenvironment coupling",
	"ML prediction",
	"Multi-drug support",
}

// Health reports service liveness and basic readiness signals.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		Features:      serviceFeatures,
		UptimeSeconds: time.Since(h.started).Seconds(),
	}
	if h.catalog != nil {
		resp.CellLines = len(h.catalog.List())
	}
	writeJSON(w, http.StatusOK, resp)
}
