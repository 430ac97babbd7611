package transport

import "net/http"

// ResultCode is the domain-level outcome carried in every envelope. It mirrors the HTTP
// status for the outcomes this service produces but is reported separately.
type ResultCode int

const (
	ResultSuccess          ResultCode = 200
	ResultCreated          ResultCode = 201
	ResultBadRequest       ResultCode = 400
	ResultUnauthorized     ResultCode = 401
	ResultNotFound         ResultCode = 404
	ResultMethodNotAllowed ResultCode = 405
	ResultConflict         ResultCode = 409
	ResultServerError      ResultCode = 500
	ResultUnavailable      ResultCode = 503
)

// InternalErrorMessage replaces the message of every unclassified failure.
const InternalErrorMessage = "internal server error"

// Envelope is the standard API response wrapper used for both success and error payloads.
// Data is non-null exactly when the request succeeded.
type Envelope struct {
	Code    ResultCode  `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Status  int         `json:"status"`
}

// NewSuccess returns a success envelope.
func NewSuccess(code ResultCode, message string, data interface{}, status int) Envelope {
	if status == 0 {
		status = http.StatusOK
	}
	return Envelope{
		Code:    code,
		Message: message,
		Data:    data,
		Status:  status,
	}
}

// NewError returns an error envelope; Data is always null.
func NewError(code ResultCode, message string, status int) Envelope {
	return Envelope{
		Code:    code,
		Message: message,
		Data:    nil,
		Status:  status,
	}
}

// Internal returns the generic server-error envelope.
func Internal() Envelope {
	return NewError(ResultServerError, InternalErrorMessage, http.StatusInternalServerError)
}
