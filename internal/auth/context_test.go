package auth

import (
	"context"
	"testing"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:    "u1",
		SessionID: 3,
		PartnerID: "u2",
		Owners:    []string{"u1", "u2"},
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "u1")
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
	if got.PartnerID != "u2" {
		t.Errorf("PartnerID = %q, want %q", got.PartnerID, "u2")
	}
	if len(got.Owners) != 2 {
		t.Errorf("Owners = %v, want 2 entries", got.Owners)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: "u7"})
	if UserID(ctx) != "u7" {
		t.Errorf("UserID = %q, want u7", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != "" {
		t.Error("expected empty string for missing context")
	}
}

func TestPartnerID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: "u1"})
	if PartnerID(ctx) != "" {
		t.Error("expected no partner")
	}
	ctx = WithAuth(context.Background(), AuthContext{UserID: "u1", PartnerID: "u2"})
	if PartnerID(ctx) != "u2" {
		t.Errorf("PartnerID = %q, want u2", PartnerID(ctx))
	}
}

func TestOwnersMissing(t *testing.T) {
	if owners := Owners(context.Background()); len(owners) != 0 {
		t.Errorf("Owners = %v, want empty", owners)
	}
}
