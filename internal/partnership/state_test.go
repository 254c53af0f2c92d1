package partnership

import (
	"testing"

	"github.com/dukerupert/pairhouse/internal/model"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		a, b         string
		wantA, wantB string
	}{
		{"a", "b", "a", "b"},
		{"b", "a", "a", "b"},
		{"same", "same", "same", "same"},
		{"0f1e", "0f1d", "0f1d", "0f1e"},
	}
	for _, tt := range tests {
		gotA, gotB := Canonical(tt.a, tt.b)
		if gotA != tt.wantA || gotB != tt.wantB {
			t.Errorf("Canonical(%q, %q) = (%q, %q), want (%q, %q)", tt.a, tt.b, gotA, gotB, tt.wantA, tt.wantB)
		}
	}
}

func TestStateFor(t *testing.T) {
	pending := &model.Partnership{UserA: "a", UserB: "b", Status: model.PartnershipPending, InvitedBy: "a"}
	accepted := &model.Partnership{UserA: "a", UserB: "b", Status: model.PartnershipAccepted, InvitedBy: "b"}
	rejected := &model.Partnership{UserA: "a", UserB: "b", Status: model.PartnershipRejected, InvitedBy: "a"}

	tests := []struct {
		name string
		p    *model.Partnership
		user string
		want State
	}{
		{"no row", nil, "a", StateNone},
		{"inviter", pending, "a", StatePendingSent},
		{"invitee", pending, "b", StatePendingReceived},
		{"outsider", pending, "c", StateNone},
		{"accepted a", accepted, "a", StateAccepted},
		{"accepted b", accepted, "b", StateAccepted},
		{"rejected", rejected, "b", StateNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFor(tt.p, tt.user); got != tt.want {
				t.Errorf("StateFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPartner(t *testing.T) {
	p := &model.Partnership{UserA: "a", UserB: "b"}

	if got, ok := Partner(p, "a"); !ok || got != "b" {
		t.Errorf("Partner(a) = %q, %v", got, ok)
	}
	if got, ok := Partner(p, "b"); !ok || got != "a" {
		t.Errorf("Partner(b) = %q, %v", got, ok)
	}
	if _, ok := Partner(p, "c"); ok {
		t.Error("expected outsider to have no partner")
	}
	if _, ok := Partner(nil, "a"); ok {
		t.Error("expected nil partnership to have no partner")
	}
}

func TestOwnersAndVisible(t *testing.T) {
	accepted := &model.Partnership{UserA: "a", UserB: "b", Status: model.PartnershipAccepted, InvitedBy: "a"}
	pending := &model.Partnership{UserA: "a", UserB: "b", Status: model.PartnershipPending, InvitedBy: "a"}

	owners := Owners(accepted, "b")
	if len(owners) != 2 || owners[0] != "b" || owners[1] != "a" {
		t.Errorf("Owners(accepted, b) = %v", owners)
	}
	if !Visible(owners, "a") || !Visible(owners, "b") || Visible(owners, "c") {
		t.Errorf("Visible over %v gave wrong answer", owners)
	}

	owners = Owners(pending, "a")
	if len(owners) != 1 || owners[0] != "a" {
		t.Errorf("Owners(pending, a) = %v, want [a]", owners)
	}
	if Visible(owners, "b") {
		t.Error("pending partner must not be visible")
	}

	if Visible(nil, "a") {
		t.Error("empty owner set must see nothing")
	}
}
