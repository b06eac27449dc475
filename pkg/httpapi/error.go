package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Result wraps successful responses; the crud client unwraps Data.
type Result struct {
	Data any `json:"data"`
}

const (
	CodeInvalidJSON = "INVALID_JSON"
	CodeValidation  = "VALIDATION_FAILED"
	CodeNotFound    = "NOT_FOUND"
	CodeInternal    = "INTERNAL"
)

var ErrEmptyBody = serrors.NewError("EMPTY_BODY", "request body is empty", "")

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

// WriteData writes payload wrapped in a Result.
func WriteData(w http.ResponseWriter, status int, payload any) error {
	return WriteJSON(w, status, &Result{Data: payload})
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteValidation reports field errors as 422 with the fields in Meta.
func WriteValidation(w http.ResponseWriter, errs serrors.ValidationErrors) error {
	return WriteError(w, http.StatusUnprocessableEntity, CodeValidation, errs.Error(), errs)
}

// WriteServiceError maps a coded error to its response. Uncoded errors are
// reported as 500 without leaking their text.
func WriteServiceError(w http.ResponseWriter, status int, err error) error {
	var verrs serrors.ValidationErrors
	if errors.As(err, &verrs) {
		return WriteValidation(w, verrs)
	}
	var base *serrors.BaseError
	if errors.As(err, &base) {
		return WriteError(w, status, base.Code, base.Message, nil)
	}
	return WriteError(w, http.StatusInternalServerError, CodeInternal, "internal error", nil)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}
