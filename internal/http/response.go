package http

import (
	"encoding/json"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Default(log.ComponentHTTP).Error("Failed to encode response", log.FieldError, err)
		status = http.StatusInternalServerError
		body = []byte(`{"status":"error","message":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, core.Failure{Status: core.StatusError, Message: message})
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}
