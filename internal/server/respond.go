package server

import (
	"encoding/json"
	"net/http"
)

// messageResponse is the body used for errors and confirmations,
// matching the {"message": ...} shape the client expects.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a {"message": ...} body with the given status.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
