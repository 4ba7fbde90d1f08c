package auth

import "net/http"

// ErrorKind is the closed set of authentication failure kinds. Kinds
// select the HTTP status and keep failure messages free of detail an
// attacker could use.
type ErrorKind string

const (
	ErrorUnauthorized  ErrorKind = "UNAUTHORIZED"
	ErrorNotConfigured ErrorKind = "NOT_CONFIGURED"
	ErrorInvalidToken  ErrorKind = "INVALID_TOKEN"
	ErrorMissingToken  ErrorKind = "MISSING_TOKEN"
)

func (k ErrorKind) String() string {
	return string(k)
}

// Status maps the kind to its HTTP status code. A production deployment
// without a configured secret is an operator problem, not a client one,
// so NOT_CONFIGURED reports service unavailability.
func (k ErrorKind) Status() int {
	if k == ErrorNotConfigured {
		return http.StatusServiceUnavailable
	}

	return http.StatusUnauthorized
}

var kindMessages = map[ErrorKind]string{
	ErrorUnauthorized:  "Unauthorized",
	ErrorNotConfigured: "Admin authentication not configured",
	ErrorInvalidToken:  "Invalid admin token",
	ErrorMissingToken:  "Missing admin token",
}

// Error is a failed authentication decision. Kind and Message always
// travel together and never contain submitted or configured tokens.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind) *Error {
	msg, ok := kindMessages[kind]
	if !ok {
		kind = ErrorUnauthorized
		msg = kindMessages[ErrorUnauthorized]
	}

	return &Error{Kind: kind, Message: msg}
}
