// internal/app/features/organizations/update.go
package organizations

import (
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/registry"
	"github.com/dalemusser/orgadmin/internal/app/system/formutil"
	"github.com/dalemusser/orgadmin/internal/app/system/inputval"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
)

// HandleUpdate renames an organization and/or changes its admin's email or
// password. Absent fields are left unchanged.
//
// Route: PUT /org/update
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := formutil.Decode(w, r, &in); err != nil {
		h.Respond.Fail(w, r, err)
		return
	}
	in.trim()
	if err := inputval.Struct(in, updateMessages); err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update organization")
	defer cancel()

	org, err := h.Registry.UpdateOrganization(ctx, registry.UpdateInput{
		Name:        in.OrganizationName,
		NewName:     in.NewOrganizationName,
		NewEmail:    in.Email,
		NewPassword: in.Password,
	})
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	h.Audit.OrgUpdated(ctx, r, org.ID, org.AdminID, changes(in))

	respond.OK(w, http.StatusOK, "Organization updated successfully", updatedView{
		OrganizationName: org.OrganizationName,
		CollectionName:   org.CollectionName,
		UpdatedAt:        org.UpdatedAt,
	})
}

// changes lists the requested changes for the audit record.
func changes(in updateInput) map[string]string {
	c := map[string]string{"organization_name": in.OrganizationName}
	if in.NewOrganizationName != nil {
		c["new_organization_name"] = *in.NewOrganizationName
	}
	if in.Email != nil {
		c["email"] = *in.Email
	}
	if in.Password != nil {
		c["password"] = "changed"
	}
	return c
}
