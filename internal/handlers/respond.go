package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/repositories"
)

// Application error codes carried by Bad-Request responses. The enumeration is
// open; new validation reasons get new codes.
const (
	codeInvalidForm      = 10001
	codePasswordMismatch = 10010
	codeNoFile           = 10020
	codeWrongFileType    = 10021
)

// envelope is the uniform response body: {message, data, pager?} on success,
// {message, code?, data?} on error.
type envelope struct {
	Message string              `json:"message"`
	Code    int                 `json:"code,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Pager   *repositories.Pager `json:"pager,omitempty"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	respondJSON(ctx, w, status, envelope{Message: "OK", Data: data})
}

func respondPage(ctx context.Context, w http.ResponseWriter, data any, pager repositories.Pager) {
	respondJSON(ctx, w, http.StatusOK, envelope{Message: "OK", Data: data, Pager: &pager})
}

func respondMessage(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	respondJSON(ctx, w, status, envelope{Message: message, Data: data})
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, envelope{Message: message})
}

func respondCode(ctx context.Context, w http.ResponseWriter, status int, message string, code int) {
	respondJSON(ctx, w, status, envelope{Message: message, Code: code})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
