package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/metrixmedia/backend/internal/model"
)

// Response bodies of the contact endpoint.
const (
	msgThankYou         = "Thank you for your message! We'll get back to you soon."
	msgMethodNotAllowed = "Method not allowed"
	msgTooManyRequests  = "Too many requests. Please try again later."
	msgPayloadTooLarge  = "Payload too large"
	msgInvalidJSON      = "Invalid JSON"
	msgInvalidForm      = "Invalid form data"
	msgInternalError    = "Internal server error. Please try again later."
)

// contactResponse is the uniform JSON body of every contact endpoint reply.
type contactResponse struct {
	OK      bool               `json:"ok"`
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, contactResponse{OK: false, Message: message})
}
