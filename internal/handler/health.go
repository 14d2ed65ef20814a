// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	backendURL string
	httpClient *http.Client
	startTime  time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, backendURL string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		backendURL: backendURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		startTime:  time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the full health response for authenticated callers.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
}

// Health handles GET /health. Unauthenticated callers get the bare status,
// signed-in callers get check details and system info.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"backend":  h.checkBackend(r.Context()),
	}

	status := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			status = "degraded"
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if middleware.GetUser(r) == nil {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: status})
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	_ = json.NewEncoder(w).Encode(HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Version,
		Checks:    checks,
		System: &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     fmt.Sprintf("%.1f MB", float64(mem.Alloc)/(1<<20)),
		},
	})
}

// Live handles GET /health/live - process liveness, always OK.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: "alive"})
}

// Ready handles GET /health/ready - readiness to serve, requires the
// session database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if check := h.checkDatabase(r.Context()); check.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: "not ready"})
		return
	}
	_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: "ready"})
}

// checkDatabase pings the session/event database.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}
	return Check{Status: "healthy", Latency: time.Since(start).String()}
}

// checkBackend probes the backend API with a cheap unauthenticated read.
// Any HTTP answer counts as reachable; only transport failures do not.
func (h *HealthHandler) checkBackend(ctx context.Context) Check {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.backendURL+"/categories", nil)
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return Check{Status: "unhealthy", Message: "backend unreachable"}
	}
	resp.Body.Close()

	return Check{Status: "healthy", Latency: time.Since(start).String()}
}
