package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAdmin inserts an admin with no organization.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, passwordHash string) models.Admin {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("admins").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return a
}

// CreateOrganization inserts an organization owned by admin, links the
// admin to it and creates its collection.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, admin models.Admin) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	orgName := normalize.OrgName(name)
	org := models.Organization{
		ID:               primitive.NewObjectID(),
		OrganizationName: orgName,
		CollectionName:   normalize.CollectionName(orgName),
		AdminID:          admin.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	if _, err := f.db.Collection("admins").UpdateByID(ctx, admin.ID, map[string]any{
		"$set": map[string]any{"organization_id": org.ID},
	}); err != nil {
		f.t.Fatalf("failed to link test admin: %v", err)
	}
	if err := f.db.CreateCollection(ctx, org.CollectionName); err != nil {
		f.t.Fatalf("failed to create test collection: %v", err)
	}
	return org
}
