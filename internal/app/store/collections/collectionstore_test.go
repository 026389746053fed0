package collectionstore_test

import (
	"errors"
	"fmt"
	"testing"

	collectionstore "github.com/dalemusser/orgadmin/internal/app/store/collections"
	"github.com/dalemusser/orgadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := collectionstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "org_acme"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := store.Exists(ctx, "org_acme")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected collection to exist")
	}

	// The probe document must not be left behind.
	n, err := store.Count(ctx, "org_acme")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty collection, got %d documents", n)
	}
}

func TestStore_Create_AlreadyExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := collectionstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "org_dup"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	err := store.Create(ctx, "org_dup")
	if !errors.Is(err, collectionstore.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := collectionstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "org_old"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// More than one copy batch.
	const total = 1234
	docs := make([]any, total)
	for i := range docs {
		docs[i] = bson.M{"seq": i, "label": fmt.Sprintf("doc-%d", i)}
	}
	if _, err := db.Collection("org_old").InsertMany(ctx, docs); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := store.Rename(ctx, "org_old", "org_new"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	oldExists, _ := store.Exists(ctx, "org_old")
	if oldExists {
		t.Error("expected old collection to be gone")
	}
	n, err := store.Count(ctx, "org_new")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != total {
		t.Errorf("expected %d documents after rename, got %d", total, n)
	}

	var got bson.M
	if err := db.Collection("org_new").FindOne(ctx, bson.M{"seq": 42}).Decode(&got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got["label"] != "doc-42" {
		t.Errorf("document content not preserved: %v", got)
	}
}

func TestStore_Rename_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := collectionstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "org_a"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, "org_b"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"target taken", "org_a", "org_b", collectionstore.ErrAlreadyExists},
		{"source missing", "org_missing", "org_c", collectionstore.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Rename(ctx, tt.from, tt.to)
			if !errors.Is(err, tt.want) {
				t.Errorf("Rename(%q, %q) = %v, want %v", tt.from, tt.to, err, tt.want)
			}
		})
	}

	// Failed renames leave both originals untouched.
	for _, name := range []string{"org_a", "org_b"} {
		if ok, _ := store.Exists(ctx, name); !ok {
			t.Errorf("expected %s to still exist", name)
		}
	}
	if ok, _ := store.Exists(ctx, "org_c"); ok {
		t.Error("expected org_c not to be created")
	}
}

func TestStore_Drop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := collectionstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "org_gone"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Drop(ctx, "org_gone"); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if ok, _ := store.Exists(ctx, "org_gone"); ok {
		t.Error("expected collection to be dropped")
	}

	err := store.Drop(ctx, "org_gone")
	if !errors.Is(err, collectionstore.ErrNotFound) {
		t.Errorf("second Drop: expected ErrNotFound, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := collectionstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"org_zeta", "org_alpha"} {
		if err := store.Create(ctx, name); err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
	}
	// Non-organization collections are not listed.
	if err := db.CreateCollection(ctx, "admins"); err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"org_alpha", "org_zeta"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
