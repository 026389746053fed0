// internal/app/features/organizations/handler.go
package organizations

import (
	"github.com/dalemusser/orgadmin/internal/app/registry"
	"github.com/dalemusser/orgadmin/internal/app/system/auditlog"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Organizations.
type Handler struct {
	Registry *registry.Registry
	Respond  *respond.Responder
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a new Organizations handler. audit may be nil.
func NewHandler(reg *registry.Registry, rs *respond.Responder, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Registry: reg,
		Respond:  rs,
		Audit:    audit,
		Log:      logger,
	}
}
