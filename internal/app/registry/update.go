package registry

import (
	"context"
	"errors"
	"fmt"

	adminstore "github.com/dalemusser/orgadmin/internal/app/store/admins"
	collectionstore "github.com/dalemusser/orgadmin/internal/app/store/collections"
	organizationstore "github.com/dalemusser/orgadmin/internal/app/store/organizations"
	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UpdateInput names an organization and the changes to apply. Nil fields
// are left unchanged.
type UpdateInput struct {
	Name        string
	NewName     *string
	NewEmail    *string
	NewPassword *string
}

// UpdateOrganization applies in to the organization and its admin. A name
// change renames the organization's collection before the organization
// record is rewritten.
func (r *Registry) UpdateOrganization(ctx context.Context, in UpdateInput) (models.Organization, error) {
	org, err := r.mustGetByName(ctx, in.Name)
	if err != nil {
		return models.Organization{}, err
	}

	var orgUpd organizationstore.Update
	var renameTo string
	if in.NewName != nil {
		newName := normalize.OrgName(*in.NewName)
		if newName != "" && newName != org.OrganizationName {
			taken, err := r.orgs.NameExistsForOther(ctx, newName, org.ID)
			if err != nil {
				return models.Organization{}, fmt.Errorf("check organization name: %w", err)
			}
			if taken {
				return models.Organization{}, apperr.Conflict(MsgOrgNameTaken)
			}
			orgUpd.OrganizationName = &newName
			if coll := normalize.CollectionName(newName); coll != org.CollectionName {
				renameTo = coll
				orgUpd.CollectionName = &coll
			}
		}
	}

	admin, err := r.admins.GetByID(ctx, org.AdminID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, apperr.NotFound(MsgAdminNotFound)
	}
	if err != nil {
		return models.Organization{}, fmt.Errorf("load admin: %w", err)
	}

	var adminUpd adminstore.Update
	if in.NewEmail != nil {
		email := normalize.Email(*in.NewEmail)
		if email != "" && email != admin.Email {
			taken, err := r.admins.EmailExistsForOther(ctx, email, admin.ID)
			if err != nil {
				return models.Organization{}, fmt.Errorf("check admin email: %w", err)
			}
			if taken {
				return models.Organization{}, apperr.Conflict(MsgEmailTakenByOther)
			}
			adminUpd.Email = &email
		}
	}
	if in.NewPassword != nil {
		hash, err := r.hasher.Hash(*in.NewPassword)
		if err != nil {
			return models.Organization{}, err
		}
		adminUpd.PasswordHash = &hash
	}

	if adminUpd.Email != nil || adminUpd.PasswordHash != nil {
		if err := r.admins.Update(ctx, admin.ID, adminUpd); err != nil {
			return models.Organization{}, conflictFromStore(fmt.Errorf("update admin: %w", err), MsgEmailTakenByOther)
		}
	}

	if renameTo != "" {
		if err := r.collections.Rename(ctx, org.CollectionName, renameTo); err != nil {
			if errors.Is(err, collectionstore.ErrAlreadyExists) {
				return models.Organization{}, collectionTaken(renameTo)
			}
			return models.Organization{}, fmt.Errorf("rename collection: %w", err)
		}
	}

	if err := r.orgs.Update(ctx, org.ID, orgUpd); err != nil {
		if renameTo != "" {
			r.undoRename(ctx, renameTo, org.CollectionName, err)
		}
		return models.Organization{}, conflictFromStore(fmt.Errorf("update organization: %w", err), MsgEmailTakenByOther)
	}

	updated, err := r.orgs.GetByID(ctx, org.ID)
	if err != nil {
		return models.Organization{}, fmt.Errorf("reload organization: %w", err)
	}

	r.log.Info("organization updated",
		zap.String("organization", updated.OrganizationName),
		zap.String("collection", updated.CollectionName),
		zap.Bool("renamed", renameTo != ""),
		zap.Bool("email_changed", adminUpd.Email != nil),
		zap.Bool("password_changed", adminUpd.PasswordHash != nil))
	return updated, nil
}

// undoRename moves the collection back after the organization record could
// not be rewritten, so collection_name keeps naming a live collection.
func (r *Registry) undoRename(ctx context.Context, from, to string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Long())
	defer cancel()

	log := r.log.With(zap.String("from", from), zap.String("to", to), zap.NamedError("cause", cause))
	if err := r.collections.Rename(ctx, from, to); err != nil {
		log.Error("rollback: rename collection back failed", zap.Error(err))
		return
	}
	log.Warn("organization update failed; collection renamed back")
}
