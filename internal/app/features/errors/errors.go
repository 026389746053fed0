// internal/app/features/errors/errors.go
package errors

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/system/respond"
)

// Handler is the errors feature handler.
// No DB needed; it just writes JSON failures.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers any request no route matched.
//
//	404 { "success":false, "error":"Route GET /nope not found" }
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusNotFound, RouteNotFound(r))
}

// MethodNotAllowed is reported the same way as an unknown route.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.NotFound(w, r)
}

// RouteNotFound formats the message for an unmatched request.
func RouteNotFound(r *http.Request) string {
	return fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path)
}
