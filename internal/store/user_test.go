package store

import (
	"context"
	"testing"
)

func TestUserCreate(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "  Alice@Example.com ", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}

	p, err := NewProfileStore(db).Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile created alongside user")
	}
	if p.FullName != nil || p.AvatarURL != nil {
		t.Errorf("expected empty profile, got %+v", p)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "ALICE@example.com", "hash"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	created := createTestUser(t, db, "alice@example.com")

	u, err := us.GetByEmail(context.Background(), "Alice@Example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want id %s", u, created.ID)
	}

	missing, err := us.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserLookupByEmail(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	created := createTestUser(t, db, "bob@example.com")

	ids, err := us.LookupByEmail(context.Background(), " BOB@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(ids) != 1 || ids[0] != created.ID {
		t.Errorf("ids = %v, want [%s]", ids, created.ID)
	}

	ids, err = us.LookupByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
}

func TestUserUpdatePassword(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	u := createTestUser(t, db, "alice@example.com")

	if err := us.UpdatePassword(context.Background(), u.ID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	got, _ := us.GetByID(context.Background(), u.ID)
	if got.PasswordHash != "new-hash" {
		t.Errorf("password_hash = %q, want %q", got.PasswordHash, "new-hash")
	}
}

func TestUserDeleteCascadesProfile(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	u := createTestUser(t, db, "alice@example.com")

	if err := us.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	p, err := NewProfileStore(db).Get(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p != nil {
		t.Error("expected profile removed with user")
	}
}
