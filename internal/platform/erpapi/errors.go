package erpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// APIError carries the status and server-supplied message of a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("erpapi: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("erpapi: status %d", e.Status)
}

// Unwrap maps API statuses onto the shared taxonomy so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case http.StatusForbidden:
		return shared.ErrForbidden
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusConflict:
		return shared.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return shared.ErrValidation
	default:
		return shared.ErrFetch
	}
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil {
		switch {
		case env.Message != "":
			apiErr.Message = env.Message
		case env.Error != "":
			apiErr.Message = env.Error
		case env.Detail != "":
			apiErr.Message = env.Detail
		}
	}
	return apiErr
}
