package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var (
	// ErrEmptyBody is returned by DecodeJSON when the request carries no body.
	ErrEmptyBody = errors.New("empty request body")
	// ErrNullBody is returned by DecodeJSON for a top-level JSON null.
	ErrNullBody = errors.New("request body must be a JSON object, got null")
	// ErrTrailingData is returned by DecodeJSON when data follows the first
	// JSON value.
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")
)

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
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

// JSONMessage writes {"message": "..."} with a given status.
func JSONMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// DecodeJSON parses the JSON body into v. The body must hold exactly one
// non-null JSON value; unknown fields are ignored. Writing the failure
// response is left to the caller.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if bytes.Equal(raw, []byte("null")) {
		return ErrNullBody
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return ErrTrailingData
	}

	return json.Unmarshal(raw, v)
}
