// Package http provides HTTP handlers and middleware for the web application.
// It includes the item CRUD handlers, health check endpoint, request logging,
// panic recovery, and rate limiting middleware.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"itemkeeper/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health check endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`            // "healthy" or "unhealthy"
	Message string `json:"message,omitempty"` // Optional status message
}

// HealthHandler handles health check endpoint requests.
// It performs a database connectivity check and returns detailed status.
type HealthHandler struct {
	DB      *sql.DB
	Version string
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{},
		Version:   h.Version,
	}
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pingDatabase(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["database"] = CheckStatus{Status: "unhealthy", Message: err.Error()}
		code = http.StatusServiceUnavailable
	} else {
		resp.Checks["database"] = CheckStatus{Status: "healthy"}
	}

	respond.JSON(w, code, resp)
}

func (h HealthHandler) pingDatabase(ctx context.Context) error {
	var one int
	return h.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// RootHandler responds to GET / with a liveness message.
type RootHandler struct {
	Version string
}

func (h RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "itemkeeper is running",
		"version": h.Version,
	})
}
