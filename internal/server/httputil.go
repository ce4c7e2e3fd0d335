package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes bounds request bodies; texts beyond the model window are
// truncated anyway.
const maxBodyBytes = 4 << 20

type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func JSONResponse(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// JSONDetail writes {"detail": message}, the error shape of the similarity
// endpoint.
func JSONDetail(w http.ResponseWriter, status int, message string) error {
	return JSONResponse(w, status, map[string]string{
		"detail": message,
	})
}

// JSONError writes {"error": message}, the error shape of the history API.
func JSONError(w http.ResponseWriter, status int, message string) error {
	return JSONResponse(w, status, map[string]string{
		"error": message,
	})
}

func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &HTTPError{
				Code:    http.StatusRequestEntityTooLarge,
				Message: "Request body too large",
			}
		}
		return &HTTPError{
			Code:    http.StatusUnprocessableEntity,
			Message: "Invalid JSON payload: " + err.Error(),
		}
	}
	return nil
}
