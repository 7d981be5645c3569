package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgNoFilePart      = "No file part"
	MsgNoSelectedFile  = "No selected file"
	MsgInvalidFileType = "Invalid file type. Please upload an image."

	processingPrefix = "Error processing image: "
	unexpectedPrefix = "An unexpected error occurred: "
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError is an error that knows the status code it should be reported
// with. Its Error() text is what the client sees.
type HTTPError interface {
	error
	Status() int
}

// ValidationError is a client mistake in the upload itself.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Status() int   { return http.StatusBadRequest }

// ProcessingError means the upload passed validation but could not be turned
// into a prediction.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string { return processingPrefix + e.Err.Error() }
func (e *ProcessingError) Status() int   { return http.StatusInternalServerError }
func (e *ProcessingError) Unwrap() error { return e.Err }

// UnexpectedError covers every failure outside the validation and processing
// steps.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string { return unexpectedPrefix + e.Err.Error() }
func (e *UnexpectedError) Status() int   { return http.StatusInternalServerError }
func (e *UnexpectedError) Unwrap() error { return e.Err }

func respondError(c *gin.Context, err error) {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = &UnexpectedError{Err: err}
	}

	c.AbortWithStatusJSON(httpErr.Status(), ErrorResponse{Error: httpErr.Error()})
}
