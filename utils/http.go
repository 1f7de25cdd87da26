package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error envelope returned by every endpoint. Detail is a
// plain message for 401/404/500 responses and a []FieldError for 422 responses.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with data as the body
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteBytes writes a raw binary body with the given content type
func WriteBytes(w http.ResponseWriter, status int, contentType string, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteUnprocessable writes a 422 response listing the rejected fields
func WriteUnprocessable(w http.ResponseWriter, fields []FieldError) error {
	if fields == nil {
		fields = []FieldError{}
	}
	return WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: fields})
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Not authenticated"
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	return WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Detail: message})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Not Found"
	}
	return WriteJSON(w, http.StatusNotFound, ErrorResponse{Detail: message})
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed response
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "Method Not Allowed"})
}

// WriteInternalServerError writes a 500 Internal Server Error response.
// The detail is never empty.
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: message})
}

// WriteError writes a plain-message error response for the status code
func WriteError(w http.ResponseWriter, status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		return WriteUnauthorized(w, message)
	case http.StatusNotFound:
		return WriteNotFound(w, message)
	case http.StatusInternalServerError:
		return WriteInternalServerError(w, message)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return WriteJSON(w, status, ErrorResponse{Detail: message})
}
