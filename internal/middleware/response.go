package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// writeJSONError emits the API's standard error envelope. Duplicated from
// the handler package so middleware has no dependency on it.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
