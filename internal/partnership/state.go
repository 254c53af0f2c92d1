package partnership

import "github.com/dukerupert/pairhouse/internal/model"

// State is a partnership as seen from one member's side.
type State string

const (
	StateNone            State = "none"
	StatePendingSent     State = "pending_sent"
	StatePendingReceived State = "pending_received"
	StateAccepted        State = "accepted"
)

// Canonical orders a pair so that the smaller id comes first.
func Canonical(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// StateFor reports what p means for userID. Rejected rows and rows the user
// is not part of read as StateNone.
func StateFor(p *model.Partnership, userID string) State {
	if p == nil || !p.HasMember(userID) {
		return StateNone
	}
	switch p.Status {
	case model.PartnershipPending:
		if p.InvitedBy == userID {
			return StatePendingSent
		}
		return StatePendingReceived
	case model.PartnershipAccepted:
		return StateAccepted
	}
	return StateNone
}

// Partner returns the other member of p.
func Partner(p *model.Partnership, userID string) (string, bool) {
	if p == nil {
		return "", false
	}
	switch userID {
	case p.UserA:
		return p.UserB, true
	case p.UserB:
		return p.UserA, true
	}
	return "", false
}

// Owners returns the visible owner-set for userID given their active
// partnership: the user alone, plus the partner once accepted.
func Owners(p *model.Partnership, userID string) []string {
	if StateFor(p, userID) == StateAccepted {
		if partner, ok := Partner(p, userID); ok {
			return []string{userID, partner}
		}
	}
	return []string{userID}
}

// Visible reports whether a row owned by ownerID belongs to the owner-set.
func Visible(owners []string, ownerID string) bool {
	for _, o := range owners {
		if o == ownerID {
			return true
		}
	}
	return false
}
