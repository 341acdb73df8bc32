package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const (
	contentTypeJSON = "application/json"
	maxBodyBytes    = 1 << 20
)

// fieldErrors maps a request field to its validation messages. The
// non_field_errors key carries messages about the request as a whole.
type fieldErrors map[string][]string

const nonFieldErrors = "non_field_errors"

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeJSONError writes a {"detail": ...} error response
func writeJSONError(w http.ResponseWriter, detail string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"detail": detail})
}

func writeFieldErrors(w http.ResponseWriter, fe fieldErrors) {
	writeJSON(w, http.StatusBadRequest, fe)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "malformed JSON body")
	}
	return nil
}
