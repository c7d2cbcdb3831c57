package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidRequestError = "invalid_request"
	HttpUpstreamError       = "upstream_unavailable"
	HttpNoDataError         = "no_data"
)

// ErrorResponse is the error response body for the HTTP APIs.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
