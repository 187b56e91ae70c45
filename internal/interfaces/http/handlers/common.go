// Common helper functions for HTTP handlers.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/cytodyn/pkg/errors"
	wire "github.com/turtacn/cytodyn/pkg/types/simulation"
)

// maxRequestBody bounds JSON request bodies; the largest legitimate payload
// is a simulate request of a few hundred bytes.
const maxRequestBody = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps application errors to the envelope via their code; an
// unclassified error is masked as a generic internal failure.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	message := err.Error()
	if code == errors.CodeUnknown || code == errors.ErrCodeInternal {
		code = errors.ErrCodeInternal
		message = "internal server error"
	}
	writeJSON(w, code.HTTPStatus(), wire.ErrorResponse{Error: wire.ErrorBody{
		Kind:    code.Kind(),
		Code:    code.String(),
		Message: message,
	}})
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields so
// a mistyped parameter fails loudly instead of silently using a default.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidParameters, "decoding request body")
	}
	return nil
}
