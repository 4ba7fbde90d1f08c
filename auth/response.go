package auth

import (
	"net/http"

	"github.com/go-chi/render"
)

// BearerChallenge is the WWW-Authenticate value attached to 401
// responses from the gate.
const BearerChallenge = `Bearer realm="EventAngle Admin API"`

// ErrorResponse is the wire form of a failed authentication decision:
// {"ok":false,"code":...,"message":...} with the status selected by the
// error kind. It implements render.Renderer.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	OK         bool      `json:"ok"`
	Code       ErrorKind `json:"code"`
	Message    string    `json:"message"`
}

// NewErrorResponse maps a failed decision to its HTTP response.
func NewErrorResponse(e *Error) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: e.Kind.Status(),
		OK:         false,
		Code:       e.Kind,
		Message:    e.Message,
	}
}

func (er *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if er.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", BearerChallenge)
	}

	render.Status(r, er.StatusCode)
	return nil
}
