package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/cortexwalk/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies read by [DecodeJSON].
const DefaultMaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error code and a client-safe message.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
// Errors without a code are reported as internal errors.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError && code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	_ = WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
	return status
}

// DecodeJSON decodes the request body into v. Bodies larger than maxBytes,
// malformed JSON and unknown fields are INVALID_INPUT errors. A maxBytes of
// zero uses [DefaultMaxBodyBytes].
func DecodeJSON(r *http.Request, v any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "request body holds more than one JSON value")
	}
	return nil
}
