package api

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest      = &AppError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrNotFound        = &AppError{Code: http.StatusNotFound, Message: "endpoint not found"}
	ErrTooManyRequests = &AppError{Code: http.StatusTooManyRequests, Message: "too many requests"}
	ErrInternalServer  = &AppError{Code: http.StatusInternalServerError, Message: "service temporarily unavailable"}
)

func NewValidationError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func HandleError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONErrorMessage(w, appErr.Code, appErr.Message)
		return
	}
	// Never echo arbitrary error text; it may carry upstream detail.
	JSONErrorMessage(w, http.StatusInternalServerError, ErrInternalServer.Message)
}
