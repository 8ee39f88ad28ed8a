package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"frxai/pkg/frxai"
)

// errorResponse is the only error shape sent to the UI. Codes stay server side.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type errorMessageSetter interface {
	SetErrorMessage(message string)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if setter, ok := w.(errorMessageSetter); ok {
		setter.SetErrorMessage(message)
	}
	writeJSON(w, status, errorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeCoreError sends the localized message of err with the status its code maps to.
func writeCoreError(w http.ResponseWriter, r *http.Request, err error, lang frxai.Language) {
	status := http.StatusInternalServerError
	var coreErr *frxai.Error
	if errors.As(err, &coreErr) {
		status = mapErrorCodeToHTTPStatus(coreErr.Code)
	}
	writeError(w, r, status, frxai.UserMessage(err, lang))
}

// mapErrorCodeToHTTPStatus maps pipeline error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code frxai.ErrorCode) int {
	switch code {
	case frxai.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case frxai.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case frxai.ErrCodeRemoteCallFailed, frxai.ErrCodeNewsFetchFailed,
		frxai.ErrCodeMalformedResponse, frxai.ErrCodeInvalidResponseShape:
		return http.StatusBadGateway
	case frxai.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case frxai.ErrCodeDatabase:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
