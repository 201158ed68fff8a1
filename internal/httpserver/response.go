package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
)

// messageResponse is the envelope for every status message, success or failure.
type messageResponse struct {
	Msg string `json:"msg"`
}

const genericServerError = "internal server error, please try again later"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Msg: message})
}

func writeServerError(w http.ResponseWriter) {
	writeMessage(w, http.StatusInternalServerError, genericServerError)
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}
