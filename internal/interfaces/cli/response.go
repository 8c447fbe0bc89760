package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/erp/stockledger/internal/domain/shared"
)

// Error codes written in command responses
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeConflict     = "ERR_CONFLICT"
)

// Process exit codes
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitInput    = 2
	ExitRejected = 3
)

// ErrorCodeExitCode maps error codes to process exit codes
var ErrorCodeExitCode = map[string]int{
	ErrCodeInternal:     ExitInternal,
	ErrCodeValidation:   ExitInput,
	ErrCodeInvalidJSON:  ExitInput,
	ErrCodeInvalidInput: ExitInput,
	ErrCodeNotFound:     ExitRejected,
	ErrCodeInvalidState: ExitRejected,
	ErrCodeConflict:     ExitRejected,
}

// domainErrorCodes maps domain error codes to response codes.
// Domain codes not listed are treated as invalid input.
var domainErrorCodes = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":       ErrCodeNotFound,
	"DOCUMENT_NOT_FOUND":      ErrCodeNotFound,
	"DOCUMENT_ALREADY_CLOSED": ErrCodeInvalidState,
	"INVALID_STATE":           ErrCodeInvalidState,
	"STORE_LOCKED":            ErrCodeConflict,
	"LOCK_NOT_ACQUIRED":       ErrCodeConflict,
	"ALREADY_EXISTS":          ErrCodeConflict,
}

// Response is the JSON document a command writes to stdout
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail is one rejected field of a request
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
}

// ErrorResponseFor classifies err into a response.
// Domain errors keep their wrapped message; anything else is reported as internal.
func ErrorResponseFor(err error) Response {
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp := NewErrorResponse(ErrCodeValidation, "Request validation failed")
		resp.Error.Details = verr.Details
		return resp
	}

	var jerr *DecodeError
	if errors.As(err, &jerr) {
		return NewErrorResponse(ErrCodeInvalidJSON, jerr.Error())
	}

	var derr *shared.DomainError
	if errors.As(err, &derr) {
		code, ok := domainErrorCodes[derr.Code]
		if !ok {
			code = ErrCodeInvalidInput
		}
		return NewErrorResponse(code, err.Error())
	}

	return NewErrorResponse(ErrCodeInternal, "Internal error")
}

// ExitCode returns the process exit code for a response
func (r Response) ExitCode() int {
	if r.Success {
		return ExitOK
	}
	if r.Error == nil {
		return ExitInternal
	}
	if code, ok := ErrorCodeExitCode[r.Error.Code]; ok {
		return code
	}
	return ExitInternal
}

// Write encodes the response as indented JSON
func (r Response) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
