package store

import (
	"context"
	"testing"
)

func TestProfileUpdateFullName(t *testing.T) {
	db := setupTestDB(t)
	ps := NewProfileStore(db)
	u := createTestUser(t, db, "alice@example.com")

	name := "Alice"
	p, err := ps.UpdateFullName(context.Background(), u.ID, &name)
	if err != nil {
		t.Fatalf("update full name: %v", err)
	}
	if p.DisplayName() != "Alice" {
		t.Errorf("full_name = %q, want %q", p.DisplayName(), "Alice")
	}

	p, err = ps.UpdateFullName(context.Background(), u.ID, nil)
	if err != nil {
		t.Fatalf("clear full name: %v", err)
	}
	if p.FullName != nil {
		t.Errorf("full_name = %v, want nil", *p.FullName)
	}
}

func TestProfileUpdateAvatarURL(t *testing.T) {
	db := setupTestDB(t)
	ps := NewProfileStore(db)
	u := createTestUser(t, db, "alice@example.com")

	url := "https://cdn.example.com/a.png"
	p, err := ps.UpdateAvatarURL(context.Background(), u.ID, &url)
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if p.AvatarURL == nil || *p.AvatarURL != url {
		t.Errorf("avatar_url = %v, want %q", p.AvatarURL, url)
	}
}

func TestProfileGetNotFound(t *testing.T) {
	ps := NewProfileStore(setupTestDB(t))

	p, err := ps.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Error("expected nil for unknown profile")
	}
}
