// internal/app/features/organizations/delete.go
package organizations

import (
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/auth"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
)

// HandleDelete removes the caller's own organization, its admin and its
// collection.
//
// Route: DELETE /org/delete?organization_name=… (bearer token required)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.CurrentSession(r)
	if !ok {
		h.Respond.Fail(w, r, apperr.Unauthorized("No token provided"))
		return
	}

	name, err := queryName(r)
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete organization")
	defer cancel()

	org, err := h.Registry.DeleteOwnedOrganization(ctx, name, sess.OrganizationID)
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	h.Audit.OrgDeleted(ctx, r, org.ID, org.OrganizationName, org.CollectionName)

	respond.OK(w, http.StatusOK, "Organization deleted successfully", nil)
}
