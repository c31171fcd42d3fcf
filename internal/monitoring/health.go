package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthChecker reports liveness of the risk engine over HTTP. It tracks
// the last completed evaluation and any errors recorded against it.
type HealthChecker struct {
	mu             sync.RWMutex
	startedAt      time.Time
	lastEvaluation time.Time
	lastSymbol     string
	errors         []string
}

type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	LastEvaluation time.Time `json:"last_evaluation,omitempty"`
	LastSymbol     string    `json:"last_symbol,omitempty"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		startedAt: time.Now(),
		errors:    make([]string, 0),
	}
}

// MarkEvaluation records a completed evaluation for the given symbol.
func (h *HealthChecker) MarkEvaluation(symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastEvaluation = time.Now()
	h.lastSymbol = symbol
}

// maxHealthErrors bounds the error list the same way the regime
// history is bounded.
const maxHealthErrors = 20

// RecordError appends an error message to the health report, keeping
// only the most recent entries.
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
	if len(h.errors) > maxHealthErrors {
		h.errors = h.errors[len(h.errors)-maxHealthErrors:]
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// Headers must be set before the status line is written.
	w.Header().Set("Content-Type", "application/json")

	status := "healthy"
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		LastEvaluation: h.lastEvaluation,
		LastSymbol:     h.lastSymbol,
		Uptime:         time.Since(h.startedAt).String(),
		Errors:         h.errors,
	}

	json.NewEncoder(w).Encode(health)
}
