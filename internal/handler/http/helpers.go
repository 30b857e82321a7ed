package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/mongo-user-service/internal/user"
)

const (
	StatusSuccess = "Success"
	StatusError   = "error"
)

// Envelope wraps every JSON response. Exactly one of Data and Errors is set.
type Envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  any    `json:"errors"`
}

func respondWithSuccess(w http.ResponseWriter, code int, message string, data any) {
	respondWithJSON(w, code, Envelope{
		Status:  StatusSuccess,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func respondWithError(w http.ResponseWriter, code int, message string, detail any) {
	respondWithJSON(w, code, Envelope{
		Status:  StatusError,
		Code:    code,
		Message: message,
		Errors:  detail,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","code":500,"message":"Internal server error","data":null,"errors":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) (int, string) {
	var userErr *user.Error
	if !errors.As(err, &userErr) {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch userErr.Kind {
	case user.KindMissingFields:
		return http.StatusBadRequest, "Missing fields"
	case user.KindInvalidID:
		return http.StatusBadRequest, "Invalid ID format"
	case user.KindNoFields:
		return http.StatusBadRequest, "No fields to update"
	case user.KindNotFound:
		return http.StatusNotFound, "User not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondWithServiceError converts a service error to its envelope. Client
// errors are logged at warn, everything else at error.
func respondWithServiceError(w http.ResponseWriter, err error, msg string) {
	code, message := mapErrorToStatusCode(err)

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)
	} else {
		log.Warn().Err(err).Msg(msg)
	}

	respondWithError(w, code, message, err.Error())
}
