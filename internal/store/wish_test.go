package store

import (
	"context"
	"testing"
)

func TestWishCRUD(t *testing.T) {
	db := setupTestDB(t)
	a := createTestUser(t, db, "alice@example.com")
	b := createTestUser(t, db, "bob@example.com")
	ws := NewWishStore(db)
	ctx := context.Background()

	url := "https://shop.example.com/item/1"
	w, err := ws.Create(ctx, a.ID, WishInput{Title: "Headphones", Price: ptrFloat(199), Priority: 2, URL: &url})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.URL == nil || *w.URL != url || w.Reserved || w.Purchased {
		t.Errorf("unexpected wish %+v", w)
	}

	if _, err := ws.Create(ctx, a.ID, WishInput{Title: "Bad", Priority: 4}); err == nil {
		t.Error("expected priority check to fail")
	}

	reserved, err := ws.ToggleReserved(ctx, w.ID, a.ID)
	if err != nil {
		t.Fatalf("toggle reserved: %v", err)
	}
	if !reserved.Reserved || reserved.Purchased {
		t.Errorf("after reserve = %+v", reserved)
	}
	purchased, _ := ws.TogglePurchased(ctx, w.ID, a.ID)
	if !purchased.Purchased {
		t.Error("expected purchased after toggle")
	}

	updated, err := ws.Update(ctx, w.ID, a.ID, WishInput{Title: "Better headphones", Priority: 3})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Priority != 3 || updated.Price != nil || updated.URL != nil {
		t.Errorf("unexpected update %+v", updated)
	}

	if got, _ := ws.ToggleReserved(ctx, w.ID, b.ID); got != nil {
		t.Error("expected partner toggle to affect nothing")
	}
	if ok, _ := ws.Delete(ctx, w.ID, a.ID); !ok {
		t.Error("expected owner delete to succeed")
	}
}

func TestWishListOrder(t *testing.T) {
	db := setupTestDB(t)
	a := createTestUser(t, db, "alice@example.com")
	ws := NewWishStore(db)
	ctx := context.Background()

	ws.Create(ctx, a.ID, WishInput{Title: "low", Priority: 1})
	ws.Create(ctx, a.ID, WishInput{Title: "high-old", Priority: 3})
	ws.Create(ctx, a.ID, WishInput{Title: "high-new", Priority: 3})

	list, err := ws.List(ctx, []string{a.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"high-new", "high-old", "low"}
	for i, title := range want {
		if list[i].Title != title {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Title, title)
		}
	}
}
