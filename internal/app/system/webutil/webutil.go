// internal/app/system/webutil/webutil.go

// Package webutil provides request-parsing helpers shared by the JSON API
// features: body decoding with a size cap and ObjectID path parameters.
// Both return apperr values so handlers can pass failures straight to
// respond.Err.
package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/coursehub/internal/domain/apperr"
)

// DecodeJSON reads the request body into dst, rejecting bodies larger than
// maxBytes. Unknown fields are ignored; clients may send more than the
// handler consumes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validationf("Request body must not exceed %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		default:
			return apperr.Validation("Request body must be valid JSON")
		}
	}
	return nil
}

// PathID parses the named chi URL parameter as a Mongo ObjectID.
// what names the resource in the error message, e.g. "assignment id".
func PathID(r *http.Request, param, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf("Invalid %s", what)
	}
	return id, nil
}
