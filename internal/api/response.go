package api

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the response body. Payloads are written bare, not
// wrapped in an envelope; clients consume the field names as-is.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// JSONErrorMessage writes a {"error": ...} body.
func JSONErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
