package handlers

import (
	"net/http"
	"time"
)

const version = "0.1.0"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Archives  int    `json:"archives"`
	Timestamp string `json:"timestamp"`
}

// Health handles the health check endpoint. There are no external
// dependencies to probe, so the check reports the registry size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version,
		Archives:  len(h.archives.List()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "telesight",
		Version: version,
		Docs:    "https://github.com/dagmawibabi/telesight",
	})
}
