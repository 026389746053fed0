package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// GetOrganizationByName returns the organization with its admin's email,
// or nil, nil when no organization has that name.
func (r *Registry) GetOrganizationByName(ctx context.Context, name string) (*models.OrganizationDetail, error) {
	org, err := r.orgs.GetByName(ctx, name)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}

	detail := &models.OrganizationDetail{Organization: org}
	admin, err := r.admins.GetByID(ctx, org.AdminID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		r.log.Warn("organization has no admin",
			zap.String("organization", org.OrganizationName),
			zap.String("admin_id", org.AdminID.Hex()))
	case err != nil:
		return nil, fmt.Errorf("load admin: %w", err)
	default:
		detail.AdminEmail = admin.Email
	}
	return detail, nil
}

// ListOrganizations returns all organizations ordered by name.
func (r *Registry) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := r.orgs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

func (r *Registry) mustGetByName(ctx context.Context, name string) (models.Organization, error) {
	org, err := r.orgs.GetByName(ctx, name)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, notFound()
	}
	if err != nil {
		return models.Organization{}, fmt.Errorf("load organization: %w", err)
	}
	return org, nil
}
