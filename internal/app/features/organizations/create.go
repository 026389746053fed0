// internal/app/features/organizations/create.go
package organizations

import (
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/system/formutil"
	"github.com/dalemusser/orgadmin/internal/app/system/inputval"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
)

// HandleCreate provisions an organization together with its admin and
// collection.
//
// Route: POST /org/create
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := formutil.Decode(w, r, &in); err != nil {
		h.Respond.Fail(w, r, err)
		return
	}
	in.trim()
	if err := inputval.Struct(in, createMessages); err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create organization")
	defer cancel()

	org, err := h.Registry.CreateOrganization(ctx, in.OrganizationName, in.Email, in.Password)
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	h.Audit.OrgCreated(ctx, r, org.ID, org.AdminID, org.OrganizationName, org.CollectionName)

	respond.OK(w, http.StatusCreated, "Organization created successfully", createdView{
		OrganizationName: org.OrganizationName,
		CollectionName:   org.CollectionName,
		CreatedAt:        org.CreatedAt,
	})
}
