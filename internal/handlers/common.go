package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"skillswap-backend/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to an HTTP response. Untagged
// errors become an opaque 500; their cause is logged by the caller, never
// returned to the client.
func respondServiceError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	respondJSON(w, kind.HTTPStatus(), ErrorResponse{
		Error: apperrors.Message(err),
		Kind:  kind.String(),
	})
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// Unknown fields are rejected rather than passed through.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.InvalidArgument, "invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) && len(verr) > 0 {
			return apperrors.Newf(apperrors.InvalidArgument, "invalid field %s", verr[0].Field())
		}
		return apperrors.Wrap(apperrors.InvalidArgument, "invalid request body", err)
	}
	return nil
}
