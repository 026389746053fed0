package txn_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/orgadmin/internal/app/system/txn"
	"github.com/dalemusser/orgadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated", errors.New("connection refused"), false},
		{"standalone server", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{"old server code", mongo.CommandError{Code: 51, Message: "x"}, true},
		{"ddl in transaction", mongo.CommandError{Code: 263, Message: "Cannot run 'create' in a multi-document transaction"}, true},
		{"duplicate key", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key"}, false},
		{"wrapped code", fmt.Errorf("persist admin: %w", mongo.CommandError{Code: 20}), true},
		{"message: replica set", errors.New("Transactions require a REPLICA SET"), true},
		{"message: sessions unsupported", errors.New("sessions are not supported by this deployment"), true},
		{"message: transaction only", errors.New("transaction aborted"), false},
		{"message: illegal operation", errors.New("Illegal Operation"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txn.IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDirect(t *testing.T) {
	calls := 0
	if err := (txn.Direct{}).Run(context.Background(), func(context.Context) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	boom := errors.New("patch admin failed")
	if err := (txn.Direct{}).Run(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}

// TestRunner_Commits works against both standalone servers (fallback) and
// replica sets (real transaction).
func TestRunner_Commits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Collections must exist before a transaction can write to them.
	for _, name := range []string{"admins", "organizations"} {
		if err := db.CreateCollection(ctx, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	r := txn.NewRunner(db, zap.NewNop())
	err := r.Run(ctx, func(ctx context.Context) error {
		if _, err := db.Collection("admins").InsertOne(ctx, bson.M{"email": "a@example.com"}); err != nil {
			return err
		}
		_, err := db.Collection("organizations").InsertOne(ctx, bson.M{"organization_name": "acme"})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{"admins", "organizations"} {
		n, err := db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n != 1 {
			t.Errorf("%s has %d documents, want 1", name, n)
		}
	}
}

func TestRunner_PropagatesError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boom := errors.New("organization write failed")
	err := txn.NewRunner(db, zap.NewNop()).Run(ctx, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}
