// Handlers outside the browse/export surface.

package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse names the answering service alongside its liveness.
type HealthResponse struct {
	Service   string    `json:"service"`
	Health    string    `json:"health"`
	Timestamp time.Time `json:"timestamp"`
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Service:   "nadepot",
		Health:    "ok",
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
