package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"betledger/internal/service"
	"betledger/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// respondWithError writes {"error": userMsg}. err, when set, is logged with logMsg
// (or userMsg) and never reaches the client.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Error(logMsg, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps a service error onto its HTTP status. Anything
// unrecognised is an infrastructure failure: logged, and answered with a generic 500.
func respondWithServiceError(w http.ResponseWriter, logger *slog.Logger, err error, logMsg string) {
	var validationErr validation.ValidationError
	var notFound *service.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, logger, http.StatusBadRequest, validationErr.Message, "", nil)
	case errors.As(err, &notFound):
		respondWithError(w, logger, http.StatusNotFound, notFound.Error(), "", nil)
	case errors.Is(err, service.ErrDuplicateEmail):
		respondWithError(w, logger, http.StatusBadRequest, MsgEmailRegistered, "", nil)
	case errors.Is(err, service.ErrWeakPassword):
		respondWithError(w, logger, http.StatusBadRequest, MsgWeakPassword, "", nil)
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		respondWithError(w, logger, http.StatusBadRequest, MsgInvalidResetToken, "", nil)
	case errors.Is(err, service.ErrAlreadyMember):
		respondWithError(w, logger, http.StatusBadRequest, MsgAlreadyMember, "", nil)
	case errors.Is(err, service.ErrWinnerNotMember):
		respondWithError(w, logger, http.StatusBadRequest, MsgWinnerNotMember, "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, logger, http.StatusUnauthorized, MsgInvalidCredentials, "", nil)
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, logger, http.StatusUnauthorized, MsgUnauthorized, "", nil)
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, logger, http.StatusForbidden, MsgForbidden, "", nil)
	default:
		respondWithError(w, logger, http.StatusInternalServerError, MsgInternalServerError, logMsg, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.ValidationError{Field: "body", Message: MsgInvalidBody}
	}
	return nil
}
