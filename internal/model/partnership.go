package model

import "time"

type PartnershipStatus string

const (
	PartnershipPending  PartnershipStatus = "pending"
	PartnershipAccepted PartnershipStatus = "accepted"
	PartnershipRejected PartnershipStatus = "rejected"
)

// Active reports whether the status still binds both members.
func (s PartnershipStatus) Active() bool {
	return s == PartnershipPending || s == PartnershipAccepted
}

// Partnership pairs two users. UserA is always the lexicographically smaller id.
type Partnership struct {
	ID          string            `json:"id"`
	UserA       string            `json:"user_a"`
	UserB       string            `json:"user_b"`
	Status      PartnershipStatus `json:"status"`
	InvitedBy   string            `json:"invited_by"`
	CreatedAt   time.Time         `json:"created_at"`
	RespondedAt *time.Time        `json:"responded_at"`
}

// HasMember reports whether userID is one of the pair.
func (p *Partnership) HasMember(userID string) bool {
	return p.UserA == userID || p.UserB == userID
}

// Invitee returns the member who did not send the invitation.
func (p *Partnership) Invitee() string {
	if p.InvitedBy == p.UserA {
		return p.UserB
	}
	return p.UserA
}
