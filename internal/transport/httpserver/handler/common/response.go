package common

import (
	"encoding/json"
	"net/http"

	"genealogy-app-go/internal/domain/errs"
	"genealogy-app-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// WriteDomainError maps an error kind to its HTTP status. Expected failures
// are logged as business errors and echo their message; anything else is an
// internal error.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	var (
		status int
		code   string
	)
	switch errs.Kind(err) {
	case errs.ErrNotFound:
		status, code = http.StatusNotFound, "not_found"
	case errs.ErrInvalidArgument:
		status, code = http.StatusBadRequest, "invalid_request"
	case errs.ErrInvalidState:
		status, code = http.StatusConflict, "invalid_state"
	case errs.ErrConflict:
		status, code = http.StatusConflict, "conflict"
	case errs.ErrForbidden:
		status, code = http.StatusForbidden, "forbidden"
	default:
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	log.BusinessError(op+": rejected", err, args...)
	writeError(w, status, code, err.Error())
}
