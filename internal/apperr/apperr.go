// Package apperr defines the typed error carried from handlers and
// repositories up to the central HTTP error handler.  Every domain failure
// has an HTTP status, a stable machine-readable code and a user-facing
// message in Portuguese; the code is what client integrations key on, so the
// message wording can change without breaking anyone.
package apperr

// Stable business error codes.  These values are part of the public API
// contract and must never change.
const (
	CodeAppError              = "app_error"
	CodeUserAlreadyExists     = "user_already_exists"
	CodeEmailAlreadyExists    = "email_already_exists"
	CodeRegisterFailed        = "register_failed"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeLoginFailed           = "login_failed"
	CodeTokenGenerationFailed = "token_generation_failed"
	CodeTokenRenewalFailed    = "token_renewal_failed"
	CodeInvalidToken          = "invalid_token"
	CodeMissingToken          = "missing_token"
	CodeMissingRefreshToken   = "missing_refresh_token"
	CodeInvalidRefreshToken   = "invalid_refresh_token"
	CodeNotFound              = "not_found"
	CodeInternalError         = "internal_error"
	CodeRevenueNotFound       = "revenue_not_found"
	CodeInvalidRevenueRange   = "invalid_revenue_range"
	CodeRevenueCreateFailed   = "revenue_create_failed"
	CodeRevenueUpdateFailed   = "revenue_update_failed"
	CodeRevenueDeleteFailed   = "revenue_delete_failed"
	CodeRateLimitExceeded     = "rate_limit_exceeded"
	CodeValidationError       = "validation_error"
)

// Detail is one entry of the errors list in an error envelope.  Path is the
// JSON field the detail refers to, when there is one.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Error is a domain failure with everything the HTTP layer needs to build an
// error envelope.  Headers carries extra response headers such as
// WWW-Authenticate on auth failures.
type Error struct {
	Status  int
	Code    string
	Message string
	Details []Detail
	Headers map[string]string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error.  When no details are attached the HTTP layer emits a
// single detail mirroring code/message.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithDetails returns e with the given detail list attached.
func (e *Error) WithDetails(details ...Detail) *Error {
	e.Details = details
	return e
}

// WithHeader returns e with an extra response header attached.
func (e *Error) WithHeader(key, value string) *Error {
	if e.Headers == nil {
		e.Headers = map[string]string{}
	}
	e.Headers[key] = value
	return e
}

// Bearer builds the WWW-Authenticate value used by 401 responses.
func Bearer(code string) string { return `Bearer error="` + code + `"` }
