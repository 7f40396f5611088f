package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies; every payload this API accepts is tiny.
const MaxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body must contain a single JSON object")

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON reads exactly one JSON object from the body into v, rejecting
// unknown fields. On failure the error response is already written and the
// caller should just return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		JSONError(w, http.StatusBadRequest, "empty request body")
		return io.EOF
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err == nil && dec.More() {
		err = errTrailingData
	}

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		JSONError(w, http.StatusBadRequest, "empty request body")
	case errors.As(err, &tooLarge):
		JSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, errTrailingData):
		JSONError(w, http.StatusBadRequest, err.Error())
	default:
		JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	return err
}
