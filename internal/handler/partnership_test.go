package handler

import (
	"net/http"
	"testing"

	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/partnership"
	"github.com/dukerupert/pairhouse/internal/store"
)

func setupPartnershipHandler(t *testing.T) (*PartnershipHandler, string, string) {
	t.Helper()
	db := setupHandlerTestDB(t)
	alice := createHandlerTestUser(t, db, "alice@example.com")
	bob := createHandlerTestUser(t, db, "bob@example.com")
	svc := partnership.NewService(store.NewPartnershipStore(db), store.NewUserStore(db), store.NewProfileStore(db),
		partnership.WithLogger(discardLogger))
	return NewPartnershipHandler(svc, discardLogger), alice, bob
}

func TestPartnershipInviteAccept(t *testing.T) {
	h, alice, bob := setupPartnershipHandler(t)

	rec := serve("POST /api/partnership/invite", h.Invite, "POST", "/api/partnership/invite", `{"email":" BOB@example.com "}`, solo(alice))
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite status = %d; body: %s", rec.Code, rec.Body.String())
	}
	p := decodeBody[model.Partnership](t, rec)

	rec = serve("GET /api/partnership", h.Status, "GET", "/api/partnership", "", solo(bob))
	view := decodeBody[partnership.StatusView](t, rec)
	if view.State != partnership.StatePendingReceived {
		t.Errorf("bob state = %q, want %q", view.State, partnership.StatePendingReceived)
	}

	rec = serve("POST /api/partnership/{id}/respond", h.Respond, "POST", "/api/partnership/"+p.ID+"/respond", `{"accept":true}`, solo(alice))
	if rec.Code != http.StatusForbidden {
		t.Errorf("inviter respond status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = serve("POST /api/partnership/{id}/respond", h.Respond, "POST", "/api/partnership/"+p.ID+"/respond", `{"accept":true}`, solo(bob))
	if rec.Code != http.StatusOK {
		t.Fatalf("respond status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[model.Partnership](t, rec); got.Status != model.PartnershipAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}

	rec = serve("POST /api/partnership/{id}/respond", h.Respond, "POST", "/api/partnership/"+p.ID+"/respond", `{"accept":false}`, solo(bob))
	if rec.Code != http.StatusConflict {
		t.Errorf("second respond status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = serve("DELETE /api/partnership/{id}", h.Dissolve, "DELETE", "/api/partnership/"+p.ID, "", solo(alice))
	if rec.Code != http.StatusNoContent {
		t.Errorf("dissolve status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = serve("GET /api/partnership", h.Status, "GET", "/api/partnership", "", solo(alice))
	if got := decodeBody[partnership.StatusView](t, rec); got.State != partnership.StateNone {
		t.Errorf("state after dissolve = %q, want none", got.State)
	}
}

func TestPartnershipHistory(t *testing.T) {
	h, alice, bob := setupPartnershipHandler(t)

	rec := serve("GET /api/partnership/history", h.History, "GET", "/api/partnership/history", "", solo(alice))
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("empty history = %d %q", rec.Code, rec.Body.String())
	}

	rec = serve("POST /api/partnership/invite", h.Invite, "POST", "/api/partnership/invite", `{"email":"bob@example.com"}`, solo(alice))
	p := decodeBody[model.Partnership](t, rec)
	serve("POST /api/partnership/{id}/respond", h.Respond, "POST", "/api/partnership/"+p.ID+"/respond", `{"accept":false}`, solo(bob))

	rec = serve("GET /api/partnership/history", h.History, "GET", "/api/partnership/history", "", solo(bob))
	list := decodeBody[[]model.Partnership](t, rec)
	if len(list) != 1 || list[0].Status != model.PartnershipRejected {
		t.Errorf("history = %+v, want one rejected row", list)
	}
}

func TestPartnershipErrorMapping(t *testing.T) {
	h, alice, _ := setupPartnershipHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty email", `{"email":"  "}`, http.StatusBadRequest},
		{"self invite", `{"email":"alice@example.com"}`, http.StatusBadRequest},
		{"unknown email", `{"email":"nobody@example.com"}`, http.StatusNotFound},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve("POST /api/partnership/invite", h.Invite, "POST", "/api/partnership/invite", tt.body, solo(alice))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	rec := serve("POST /api/partnership/invite", h.Invite, "POST", "/api/partnership/invite", `{"email":"bob@example.com"}`, solo(alice))
	p := decodeBody[model.Partnership](t, rec)

	rec = serve("POST /api/partnership/invite", h.Invite, "POST", "/api/partnership/invite", `{"email":"bob@example.com"}`, solo(alice))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate invite status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = serve("POST /api/partnership/{id}/respond", h.Respond, "POST", "/api/partnership/"+p.ID+"/respond", `{}`, solo(alice))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing accept status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = serve("DELETE /api/partnership/{id}", h.Dissolve, "DELETE", "/api/partnership/"+p.ID, "", solo(alice))
	if rec.Code != http.StatusConflict {
		t.Errorf("dissolve pending status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = serve("POST /api/partnership/{id}/cancel", h.Cancel, "POST", "/api/partnership/"+p.ID+"/cancel", "", solo(alice))
	if rec.Code != http.StatusNoContent {
		t.Errorf("cancel status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = serve("POST /api/partnership/{id}/cancel", h.Cancel, "POST", "/api/partnership/"+p.ID+"/cancel", "", solo(alice))
	if rec.Code != http.StatusNotFound {
		t.Errorf("cancel again status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
