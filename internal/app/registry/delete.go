package registry

import (
	"context"
	"errors"
	"fmt"

	collectionstore "github.com/dalemusser/orgadmin/internal/app/store/collections"
	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.uber.org/zap"
)

// DeleteOrganization removes the organization's collection, its admin and
// the organization itself. It returns the removed organization.
func (r *Registry) DeleteOrganization(ctx context.Context, name string) (models.Organization, error) {
	org, err := r.mustGetByName(ctx, name)
	if err != nil {
		return models.Organization{}, err
	}
	return org, r.deleteOrganization(ctx, org)
}

// DeleteOwnedOrganization is DeleteOrganization for a caller authenticated
// as the admin of callerOrgID. Any other organization is refused.
func (r *Registry) DeleteOwnedOrganization(ctx context.Context, name, callerOrgID string) (models.Organization, error) {
	org, err := r.mustGetByName(ctx, name)
	if err != nil {
		return models.Organization{}, err
	}
	if org.ID.Hex() != callerOrgID {
		return models.Organization{}, apperr.Validation(MsgNotOwner)
	}
	return org, r.deleteOrganization(ctx, org)
}

func (r *Registry) deleteOrganization(ctx context.Context, org models.Organization) error {
	// Collection first; a retry still finds the rows and tolerates the
	// missing collection.
	if err := r.collections.Drop(ctx, org.CollectionName); err != nil {
		if !errors.Is(err, collectionstore.ErrNotFound) {
			return fmt.Errorf("drop collection: %w", err)
		}
		r.log.Warn("organization collection already gone",
			zap.String("organization", org.OrganizationName),
			zap.String("collection", org.CollectionName))
	}

	err := r.tx.Run(ctx, func(ctx context.Context) error {
		if _, err := r.admins.Delete(ctx, org.AdminID); err != nil {
			return fmt.Errorf("delete admin: %w", err)
		}
		if _, err := r.orgs.Delete(ctx, org.ID); err != nil {
			return fmt.Errorf("delete organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("organization deleted",
		zap.String("organization", org.OrganizationName),
		zap.String("collection", org.CollectionName),
		zap.String("organization_id", org.ID.Hex()))
	return nil
}
