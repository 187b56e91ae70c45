package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
)

// CellLineHandler serves the read-only catalog endpoints.
type CellLineHandler struct {
	catalog *cellline.Catalog
}

func NewCellLineHandler(catalog *cellline.Catalog) *CellLineHandler {
	return &CellLineHandler{catalog: catalog}
}

// ListResponse is the body of GET /cell-lines.
type ListResponse struct {
	CellLines []cellline.Summary `json:"cellLines"`
}

// List returns a summary of every registered cell line.
func (h *CellLineHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListResponse{CellLines: h.catalog.Summaries()})
}

// Get returns the full parameter profile of one cell line.
func (h *CellLineHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := h.catalog.Lookup(name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
