package util

import (
	"encoding/json"
	"net/http"

	"github.com/eventangle/edge/pkg/log"
	"github.com/go-chi/render"
)

type Response struct {
	StatusCode int `json:"-"`
}

func (res Response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, res.StatusCode)
	return nil
}

// ServerResponse is the JSON envelope every edge endpoint speaks:
// {"ok":...,"code":...,"message":...,"data":...}. Code is only set on
// failures so clients can branch on it without parsing messages.
type ServerResponse struct {
	Response
	OK      bool            `json:"ok"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func NewServerResponse(msg string, object interface{}, statusCode int) ServerResponse {
	data, err := json.Marshal(object)
	if err != nil {
		log.Errorf("Unable to marshal response data - %s", err)
	}

	return ServerResponse{
		OK:      true,
		Message: msg,
		Data:    data,
		Response: Response{
			StatusCode: statusCode,
		},
	}
}

func NewErrorResponse(code, msg string, statusCode int) ServerResponse {
	return ServerResponse{
		OK:      false,
		Code:    code,
		Message: msg,
		Response: Response{
			StatusCode: statusCode,
		},
	}
}
