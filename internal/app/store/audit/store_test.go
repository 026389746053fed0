package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/orgadmin/internal/app/store/audit"
	"github.com/dalemusser/orgadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	event := audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLoginSuccess,
		AdminID:        &adminID,
		OrganizationID: &orgID,
		IP:             "192.168.1.1",
		UserAgent:      "TestBrowser/1.0",
		Success:        true,
	}
	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if got.AdminID == nil || *got.AdminID != adminID {
		t.Errorf("AdminID = %v, want %v", got.AdminID, adminID)
	}
	if got.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent = %q", got.UserAgent)
	}
}

func TestStore_Log_KeepsTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Log(ctx, audit.Event{
		Timestamp: ts,
		Category:  audit.CategoryAdmin,
		EventType: audit.EventOrgCreated,
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", events[0].Timestamp, ts)
	}
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgA := primitive.NewObjectID()
	orgB := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)

	seed := []audit.Event{
		{Timestamp: base, OrganizationID: &orgA, Category: audit.CategoryAdmin, EventType: audit.EventOrgCreated, Success: true},
		{Timestamp: base.Add(time.Minute), OrganizationID: &orgA, Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Timestamp: base.Add(2 * time.Minute), OrganizationID: &orgA, Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, FailureReason: "invalid password"},
		{Timestamp: base.Add(3 * time.Minute), OrganizationID: &orgB, Category: audit.CategoryAdmin, EventType: audit.EventOrgCreated, Success: true},
		{Timestamp: base.Add(4 * time.Minute), Category: audit.CategoryAuth, EventType: audit.EventLoginFailedUserNotFound, FailureReason: "user not found"},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	since := base.Add(90 * time.Second)
	tests := []struct {
		name      string
		filter    audit.QueryFilter
		wantCount int
		wantFirst string
	}{
		{"all", audit.QueryFilter{}, 5, audit.EventLoginFailedUserNotFound},
		{"by organization", audit.QueryFilter{OrganizationID: &orgA}, 3, audit.EventLoginFailedWrongPassword},
		{"by category", audit.QueryFilter{Category: audit.CategoryAdmin}, 2, audit.EventOrgCreated},
		{"by event type", audit.QueryFilter{EventType: audit.EventLoginSuccess}, 1, audit.EventLoginSuccess},
		{"since", audit.QueryFilter{Since: &since}, 3, audit.EventLoginFailedUserNotFound},
		{"limit", audit.QueryFilter{Limit: 2}, 2, audit.EventLoginFailedUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tt.wantCount {
				t.Fatalf("got %d events, want %d", len(events), tt.wantCount)
			}
			if events[0].EventType != tt.wantFirst {
				t.Errorf("first event = %q, want %q", events[0].EventType, tt.wantFirst)
			}
			for i := 1; i < len(events); i++ {
				if events[i].Timestamp.After(events[i-1].Timestamp) {
					t.Error("events not sorted most recent first")
				}
			}
		})
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}
