package registry

import (
	"errors"

	adminstore "github.com/dalemusser/orgadmin/internal/app/store/admins"
	organizationstore "github.com/dalemusser/orgadmin/internal/app/store/organizations"
	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
)

// Client-facing messages.
const (
	MsgOrgNameTaken      = "Organization with this name already exists"
	MsgEmailTaken        = "Email is already registered"
	MsgEmailTakenByOther = "Email is already registered to another organization"
	MsgOrgNotFound       = "Organization not found"
	MsgAdminNotFound     = "Admin user not found"
	MsgNotOwner          = "You can only delete your own organization"
)

func notFound() *apperr.Error { return apperr.NotFound(MsgOrgNotFound) }

func collectionTaken(name string) *apperr.Error {
	return apperr.Conflict("Collection " + name + " already exists")
}

// conflictFromStore maps unique-index violations, which surface when a
// concurrent request wins the race past the application checks.
func conflictFromStore(err error, emailMsg string) error {
	switch {
	case errors.Is(err, adminstore.ErrDuplicateEmail):
		return apperr.Wrap(apperr.KindConflict, emailMsg, err)
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		return apperr.Wrap(apperr.KindConflict, MsgOrgNameTaken, err)
	}
	return err
}
