package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidJsonError    = "invalid_json"
	HttpInvalidJsonlError   = "invalid_jsonl"
	HttpInvalidRequestError = "invalid_request"
	HttpBodyTooLargeError   = "body_too_large"
	HttpUnknownSourceError  = "unknown_source"
	HttpStrictRejectedError = "strict_rejected"
	HttpStorageError        = "storage_failed"
)

// ErrorResponse is the error response body for API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
