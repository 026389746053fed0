package registry

import (
	"context"
	"errors"
	"fmt"

	collectionstore "github.com/dalemusser/orgadmin/internal/app/store/collections"
	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateOrganization provisions an admin, its organization and the
// organization's collection. Nothing is left behind when it fails.
func (r *Registry) CreateOrganization(ctx context.Context, name, email, password string) (models.Organization, error) {
	orgName := normalize.OrgName(name)
	if orgName == "" {
		return models.Organization{}, apperr.Validation("Organization name is required")
	}
	email = normalize.Email(email)

	taken, err := r.orgs.ExistsByName(ctx, orgName)
	if err != nil {
		return models.Organization{}, fmt.Errorf("check organization name: %w", err)
	}
	if taken {
		return models.Organization{}, apperr.Conflict(MsgOrgNameTaken)
	}

	taken, err = r.admins.ExistsByEmail(ctx, email)
	if err != nil {
		return models.Organization{}, fmt.Errorf("check admin email: %w", err)
	}
	if taken {
		return models.Organization{}, apperr.Conflict(MsgEmailTaken)
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return models.Organization{}, err
	}

	collName := normalize.CollectionName(orgName)
	if err := r.collections.Create(ctx, collName); err != nil {
		if errors.Is(err, collectionstore.ErrAlreadyExists) {
			return models.Organization{}, collectionTaken(collName)
		}
		return models.Organization{}, fmt.Errorf("create collection: %w", err)
	}

	var (
		admin models.Admin
		org   models.Organization
	)
	err = r.tx.Run(ctx, func(ctx context.Context) error {
		a, err := r.admins.Create(ctx, models.Admin{Email: email, PasswordHash: hash})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		admin = a

		o, err := r.orgs.Create(ctx, models.Organization{
			OrganizationName: orgName,
			CollectionName:   collName,
			AdminID:          a.ID,
		})
		if err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		org = o

		if err := r.admins.SetOrganization(ctx, a.ID, o.ID); err != nil {
			return fmt.Errorf("link admin to organization: %w", err)
		}
		return nil
	})
	if err != nil {
		r.undoCreate(ctx, admin.ID, org.ID, collName, err)
		return models.Organization{}, conflictFromStore(err, MsgEmailTaken)
	}

	r.log.Info("organization created",
		zap.String("organization", org.OrganizationName),
		zap.String("collection", org.CollectionName),
		zap.String("organization_id", org.ID.Hex()),
		zap.String("admin_id", admin.ID.Hex()))
	return org, nil
}

// undoCreate removes whatever a failed provisioning wrote. Row deletes are
// no-ops when a transaction already rolled them back.
func (r *Registry) undoCreate(ctx context.Context, adminID, orgID primitive.ObjectID, collName string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Long())
	defer cancel()

	log := r.log.With(zap.String("collection", collName), zap.NamedError("cause", cause))
	log.Warn("provisioning failed; rolling back")

	if !orgID.IsZero() {
		if _, err := r.orgs.Delete(ctx, orgID); err != nil {
			log.Error("rollback: delete organization failed", zap.String("organization_id", orgID.Hex()), zap.Error(err))
		}
	}
	if !adminID.IsZero() {
		if _, err := r.admins.Delete(ctx, adminID); err != nil {
			log.Error("rollback: delete admin failed", zap.String("admin_id", adminID.Hex()), zap.Error(err))
		}
	}
	if err := r.collections.Drop(ctx, collName); err != nil && !errors.Is(err, collectionstore.ErrNotFound) {
		log.Error("rollback: drop collection failed", zap.Error(err))
	}
}
