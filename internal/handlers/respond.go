package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"
)

// maxBodyBytes matches the usual 100kb JSON body limit.
const maxBodyBytes = 100 << 10

var (
	errEmptyBody    = errors.New("empty request body")
	errTrailingData = errors.New("unexpected data after JSON value")
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"message": message,
	})
}

// isJSON reports whether the request declares a JSON body. Other content
// types are not parsed at all.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeBody reads a single JSON value into v. Numbers stay json.Number.
// An empty or non-JSON body leaves v untouched and returns errEmptyBody.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if !isJSON(r) {
		return errEmptyBody
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		return err
	}

	// the body must hold exactly one value
	var rest json.RawMessage
	if restErr := dec.Decode(&rest); !errors.Is(restErr, io.EOF) {
		if restErr == nil {
			restErr = errTrailingData
		}
		return restErr
	}
	return err
}

// badBody answers a body that could not be read or parsed. Oversized bodies
// get 413, everything else goes down the generic server error path.
func badBody(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	logger.Error.Printf("Failed to parse request body: %v", err)
	writeMessage(w, http.StatusInternalServerError, "Failed to parse request body")
}
