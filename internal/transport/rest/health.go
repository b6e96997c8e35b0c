package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

type HealthHandler struct {
	db     *sqlx.DB
	redis  *redis.Client
	driver string
}

// NewHealthHandler checks the database and, when rdb is not nil, redis.
func NewHealthHandler(db *sqlx.DB, driver string, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, driver: driver, redis: rdb}
}

// pingHandler → just says service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler → checks every backing store
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{
		"database": check(ctx, func(ctx context.Context) (map[string]any, error) {
			var one int
			if err := h.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
				return nil, err
			}
			stats := h.db.Stats()
			return map[string]any{
				"driver":           h.driver,
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
			}, nil
		}),
	}
	if h.redis != nil {
		components["redis"] = check(ctx, func(ctx context.Context) (map[string]any, error) {
			return nil, h.redis.Ping(ctx).Err()
		})
	}

	resp := HealthResponse{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		Components: components,
	}
	statusCode := http.StatusOK
	for _, entry := range components {
		if entry.Status == HealthUnhealthy {
			resp.Status = HealthUnhealthy
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeHealthJSON(w, statusCode, resp)
}

func check(ctx context.Context, probe func(context.Context) (map[string]any, error)) CheckEntry {
	start := time.Now()
	details, err := probe(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		Details:    details,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = "unreachable"
	}
	return entry
}

func writeHealthJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
