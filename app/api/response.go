package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/atlas-backend/storefront/models"
)

// Logger is shared by the HTTP layer.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OKResponse writes data as a JSON body with status.
func OKResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		Logger.Error().Err(err).Msg("failed to encode response")
	}
}

// ErrorResponse writes {"error": message} with status.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	OKResponse(w, status, map[string]string{"error": message})
}

// ErrorStatus maps a repository error to an HTTP status code.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err with the status ErrorStatus picks. Internal errors
// are logged and answered with fallback instead of the error text.
func HandleError(w http.ResponseWriter, err error, fallback string) {
	status := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		Logger.Error().Err(err).Msg(fallback)
		ErrorResponse(w, status, fallback)
		return
	}
	ErrorResponse(w, status, err.Error())
}
