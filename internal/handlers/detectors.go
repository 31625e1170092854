package handlers

import (
	"net/http"

	"github.com/dagmawibabi/telesight/internal/detect"
	"github.com/dagmawibabi/telesight/internal/metrics"
)

// runDetector is the shared body of GET /archives/{id}/{fraud,manipulation,conflict}.
func (h *Handler) runDetector(w http.ResponseWriter, r *http.Request, kind string, a detect.Analyzer) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	results := detect.FindAll(a, entry.Export.Messages, detectOptions(r))

	metrics.AnalysesRun.WithLabelValues(kind).Inc()
	for _, res := range results {
		metrics.DetectorHits.WithLabelValues(kind, res.Severity).Inc()
	}

	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archive": entry.ID,
		"kind":    kind,
		"count":   len(results),
		"results": results,
	})
}

// detectorStats is the shared body of the /stats variants.
func (h *Handler) detectorStats(w http.ResponseWriter, r *http.Request, kind string, a detect.Analyzer) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	stats := detect.ComputeStats(a, entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues(kind + "_stats").Inc()

	h.JSON(w, http.StatusOK, stats)
}

// Fraud handles GET /archives/{id}/fraud.
func (h *Handler) Fraud(w http.ResponseWriter, r *http.Request) {
	h.runDetector(w, r, "fraud", h.fraud)
}

// FraudStats handles GET /archives/{id}/fraud/stats.
func (h *Handler) FraudStats(w http.ResponseWriter, r *http.Request) {
	h.detectorStats(w, r, "fraud", h.fraud)
}

// Manipulation handles GET /archives/{id}/manipulation.
func (h *Handler) Manipulation(w http.ResponseWriter, r *http.Request) {
	h.runDetector(w, r, "manipulation", h.manipulation)
}

// ManipulationStats handles GET /archives/{id}/manipulation/stats.
func (h *Handler) ManipulationStats(w http.ResponseWriter, r *http.Request) {
	h.detectorStats(w, r, "manipulation", h.manipulation)
}

// Conflict handles GET /archives/{id}/conflict.
func (h *Handler) Conflict(w http.ResponseWriter, r *http.Request) {
	h.runDetector(w, r, "conflict", h.conflict)
}

// ConflictStats handles GET /archives/{id}/conflict/stats.
func (h *Handler) ConflictStats(w http.ResponseWriter, r *http.Request) {
	h.detectorStats(w, r, "conflict", h.conflict)
}

// Exchanges handles GET /archives/{id}/exchanges.
func (h *Handler) Exchanges(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	exchanges := h.conflict.FindHeatedExchanges(entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues("exchanges").Inc()

	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archive":   entry.ID,
		"count":     len(exchanges),
		"exchanges": exchanges,
	})
}
