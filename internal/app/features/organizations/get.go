// internal/app/features/organizations/get.go
package organizations

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/registry"
	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/inputval"
	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
)

// queryName reads and validates the organization_name query parameter.
func queryName(r *http.Request) (string, error) {
	in := queryInput{OrganizationName: normalize.QueryParam(r.URL.Query().Get("organization_name"))}
	if err := inputval.Struct(in, queryMessages); err != nil {
		return "", err
	}
	return in.OrganizationName, nil
}

// ServeGet returns an organization and its admin's email.
//
// Route: GET /org/get?organization_name=…
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	name, err := queryName(r)
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Registry.GetOrganizationByName(ctx, name)
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}
	if org == nil {
		h.Respond.Fail(w, r, apperr.NotFound(registry.MsgOrgNotFound))
		return
	}

	respond.OK(w, http.StatusOK, "", detailView{
		OrganizationName: org.OrganizationName,
		CollectionName:   org.CollectionName,
		AdminEmail:       org.AdminEmail,
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	})
}
