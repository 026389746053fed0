package adminstore_test

import (
	"errors"
	"testing"

	adminstore "github.com/dalemusser/orgadmin/internal/app/store/admins"
	"github.com/dalemusser/orgadmin/internal/app/system/indexes"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"github.com/dalemusser/orgadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Admin{Email: "  Owner@Example.COM ", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "owner@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.OrganizationID != nil {
		t.Error("expected no organization on a new admin")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := adminstore.New(db)

	if _, err := store.Create(ctx, models.Admin{Email: "dup@example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Admin{Email: "DUP@example.com", PasswordHash: "h"})
	if !errors.Is(err, adminstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Admin{Email: "find@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, " FIND@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned %s, want %s", got.ID.Hex(), created.ID.Hex())
	}

	_, err = store.GetByEmail(ctx, "missing@example.com")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}

	_, err = store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetByID: expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_EmailExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Admin{Email: "one@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name    string
		email   string
		exclude primitive.ObjectID
		want    bool
	}{
		{"own email excluded", "one@example.com", a.ID, false},
		{"other admin holds it", "one@example.com", primitive.NewObjectID(), true},
		{"unused email", "two@example.com", primitive.NewObjectID(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.EmailExistsForOther(ctx, tt.email, tt.exclude)
			if err != nil {
				t.Fatalf("EmailExistsForOther failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("EmailExistsForOther(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}

	exists, err := store.ExistsByEmail(ctx, "ONE@example.com")
	if err != nil || !exists {
		t.Errorf("ExistsByEmail = %v, %v; want true, nil", exists, err)
	}
}

func TestStore_UpdateAndSetOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Admin{Email: "old@example.com", PasswordHash: "old"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	email := "New@Example.com"
	hash := "new"
	if err := store.Update(ctx, a.ID, adminstore.Update{Email: &email, PasswordHash: &hash}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	orgID := primitive.NewObjectID()
	if err := store.SetOrganization(ctx, a.ID, orgID); err != nil {
		t.Fatalf("SetOrganization failed: %v", err)
	}

	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Email != "new@example.com" || got.PasswordHash != "new" {
		t.Errorf("update not applied: %+v", got)
	}
	if got.OrganizationID == nil || *got.OrganizationID != orgID {
		t.Errorf("expected organization %s, got %v", orgID.Hex(), got.OrganizationID)
	}

	err = store.Update(ctx, primitive.NewObjectID(), adminstore.Update{Email: &email})
	if err != mongo.ErrNoDocuments {
		t.Errorf("Update on missing admin: expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Admin{Email: "del@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, a.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	n, err = store.Delete(ctx, a.ID)
	if err != nil || n != 0 {
		t.Errorf("second Delete = %d, %v; want 0, nil", n, err)
	}
}
