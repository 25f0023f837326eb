package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Version       string    `json:"version"`
}

func (a *RelayApp) health(w http.ResponseWriter, r *http.Request) {
	a.writeJson(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(a.startTime).Seconds(),
		Version:       version,
	})
}

func (a *RelayApp) writeJson(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Printf("write json: %v", err)
	}
}
