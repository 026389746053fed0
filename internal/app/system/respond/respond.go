// internal/app/system/respond/respond.go
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Responder turns errors into failure envelopes. In dev mode internal errors
// carry their cause in details.
type Responder struct {
	Log *zap.Logger
	Dev bool
}

func NewResponder(logger *zap.Logger, dev bool) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{Log: logger, Dev: dev}
}

// Fail writes err. Typed *apperr.Error values keep their message; anything
// else is logged and reported as a 500.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	switch kind {
	case apperr.KindInternal:
		rs.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		env := Envelope{Error: "Internal server error"}
		if rs.Dev {
			env.Details = err.Error()
		}
		JSON(w, status, env)
	case apperr.KindValidation:
		env := Envelope{Error: apperr.MessageOf(err)}
		if d := apperr.DetailsOf(err); len(d) > 0 {
			env.Details = d
		}
		JSON(w, status, env)
	default:
		JSON(w, status, Envelope{Error: apperr.MessageOf(err)})
	}
}

// Message writes a failure envelope with status and a fixed message.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Error: message})
}
