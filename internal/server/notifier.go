package server

import (
	"context"
	"log/slog"

	"github.com/dukerupert/pairhouse/internal/email"
	"github.com/dukerupert/pairhouse/internal/partnership"
	"github.com/dukerupert/pairhouse/internal/store"
	ws "github.com/dukerupert/pairhouse/internal/websocket"
)

const defaultInviterName = "Your partner"

// partnershipNotifier fans partnership transitions out to both members'
// websocket clients and emails new invitations.
type partnershipNotifier struct {
	hub      *ws.Hub
	email    *email.Client
	profiles *store.ProfileStore
	logger   *slog.Logger
}

func (n *partnershipNotifier) PartnershipChanged(ctx context.Context, ev partnership.Event) {
	p := ev.Partnership
	n.hub.Send(ws.NewMessage("partnership", ev.Action, p.ID, map[string]any{
		"status":     p.Status,
		"invited_by": p.InvitedBy,
	}), p.UserA, p.UserB)

	if ev.Action == partnership.ActionInvited {
		n.sendInviteEmail(ctx, ev)
	}
}

// sendInviteEmail is best effort: failures are logged and the invitation
// stands.
func (n *partnershipNotifier) sendInviteEmail(ctx context.Context, ev partnership.Event) {
	if n.email == nil || !n.email.Configured() || ev.InviteeEmail == "" {
		return
	}

	name := defaultInviterName
	profile, err := n.profiles.Get(ctx, ev.ActorID)
	if err != nil {
		n.logger.Warn("load inviter profile", "user_id", ev.ActorID, "error", err)
	} else if profile.DisplayName() != "" {
		name = profile.DisplayName()
	}

	if err := n.email.SendPartnerInvite(ctx, ev.InviteeEmail, name); err != nil {
		n.logger.Error("send partner invite", "partnership_id", ev.Partnership.ID, "error", err)
		return
	}
	n.logger.Info("partner invite sent", "partnership_id", ev.Partnership.ID)
}
