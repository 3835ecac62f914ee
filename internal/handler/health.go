package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/devfolio/devfolio-go/internal/config"
	"github.com/devfolio/devfolio-go/internal/repository"
)

const apiVersion = "2.0.0"

// HealthHandler serves liveness and readiness probes plus a general health
// summary.
type HealthHandler struct {
	db    *sql.DB
	users *repository.UserRepository
	cfg   config.Config
	start time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, users *repository.UserRepository, cfg config.Config) *HealthHandler {
	return &HealthHandler{
		db:    db,
		users: users,
		cfg:   cfg,
		start: time.Now(),
	}
}

// HandleHealth handles GET /api/health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	userCount, err := h.users.Count(r.Context())
	connected := err == nil && h.db.PingContext(r.Context()) == nil

	data := map[string]any{
		"status":      "healthy",
		"uptime":      fmt.Sprintf("%ds", int(time.Since(h.start).Seconds())),
		"environment": h.cfg.Env,
		"version":     apiVersion,
		"database": map[string]any{
			"type":      "mysql",
			"connected": connected,
			"userCount": userCount,
		},
	}

	if !connected {
		data["status"] = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, apiResponse{
			Success: false,
			Message: "Health check failed",
			Data:    data,
		})
		return
	}

	writeSuccess(w, http.StatusOK, "Server is running healthy", data)
}

// HandleReadiness handles GET /api/health/ready requests, answering 503
// until the store responds and required configuration is present.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{}
	ready := true

	if err := h.db.PingContext(r.Context()); err != nil {
		checks["database"] = map[string]any{"status": "not_ready", "error": err.Error()}
		ready = false
	} else {
		checks["database"] = map[string]any{"status": "ready"}
	}

	if missing := h.cfg.MissingRequired(); len(missing) > 0 {
		checks["environment"] = map[string]any{"status": "not_ready", "missingVariables": missing}
		ready = false
	} else {
		checks["environment"] = map[string]any{"status": "ready"}
	}

	data := map[string]any{"ready": ready, "checks": checks}

	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, apiResponse{
			Success: false,
			Message: "Service is not ready",
			Data:    data,
		})
		return
	}

	writeSuccess(w, http.StatusOK, "Service is ready", data)
}

// HandleLiveness handles GET /api/health/live requests.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Service is alive", map[string]any{
		"alive":  true,
		"uptime": int(time.Since(h.start).Seconds()),
	})
}

// HandleIndex handles GET /api requests with a map of the available
// endpoints.
func (h *HealthHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Portfolio API", map[string]any{
		"version": apiVersion,
		"endpoints": map[string]any{
			"auth": map[string]string{
				"login":       "POST /api/auth/login",
				"verify":      "GET /api/auth/verify",
				"logout":      "POST /api/auth/logout",
				"profile":     "GET /api/auth/profile",
				"password":    "PUT /api/auth/password",
				"credentials": "GET /api/auth/credentials (dev only)",
			},
			"health": map[string]string{
				"general":   "GET /api/health",
				"readiness": "GET /api/health/ready",
				"liveness":  "GET /api/health/live",
			},
			"upload": map[string]string{
				"upload": "POST /api/upload (admin)",
				"delete": "DELETE /api/upload (admin)",
			},
			"collections": "CRUD under /api/{blogs,projects,education,experience,extracurricular} (reads public, writes admin)",
		},
	})
}
