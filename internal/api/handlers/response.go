package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.GetLogger().Warn().Err(err).Msg("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error onto its HTTP status
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondWithError(w, status, "internal server error")
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		respondWithError(w, status, appErr.Message)
		return
	}
	respondWithError(w, status, err.Error())
}

func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeDanglingReference:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads the request body and hands it to a wire decoder
func decodeBody[T any](w http.ResponseWriter, r *http.Request, decode func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return zero, apperrors.NewInvalidInputError(fmt.Sprintf("read request body: %v", err))
	}
	if len(data) == 0 {
		return zero, apperrors.NewInvalidInputError("request body is required")
	}
	v, err := decode(data)
	if err != nil {
		return zero, apperrors.NewInvalidInputError(err.Error())
	}
	return v, nil
}

// expandsAccommodation reports whether the caller asked for embedded accommodations
func expandsAccommodation(r *http.Request) bool {
	for _, v := range r.URL.Query()["_expand"] {
		if v == "accommodation" {
			return true
		}
	}
	return false
}
