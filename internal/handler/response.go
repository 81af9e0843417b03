package handler

import (
	"net/http"

	apperr "github.com/medex/marketplace-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusOf maps an operation rejection to its HTTP status. The response
// message always carries the rejection reason verbatim.
func StatusOf(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrUnauthorized:
		return http.StatusForbidden
	case apperr.ErrConflict:
		return http.StatusConflict
	case apperr.ErrPolicy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
