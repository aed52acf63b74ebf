// Package apperrors defines the coded errors the backend surfaces over HTTP.
package apperrors

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound Code = "NOT_FOUND"
	CodeInternal Code = "INTERNAL"
	CodeBadInput Code = "INVALID_ARGUMENT"
)

// AppError carries a code, a human-readable message, and an optional cause.
type AppError struct {
	Code    Code
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.cause }

// HTTPStatus maps the code to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, cause: err}
}
