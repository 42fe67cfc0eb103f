package middleware

import (
	"encoding/json"
	"net/http"
)

// writeMessage writes the uniform {message} error envelope used across
// the API for failure responses.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
