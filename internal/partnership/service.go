package partnership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

// Store persists partnership rows. *store.PartnershipStore implements it.
type Store interface {
	Create(ctx context.Context, userA, userB, invitedBy string) (*model.Partnership, error)
	GetByID(ctx context.Context, id string) (*model.Partnership, error)
	GetActiveForUser(ctx context.Context, userID string) (*model.Partnership, error)
	ListForUser(ctx context.Context, userID string) ([]model.Partnership, error)
	Respond(ctx context.Context, id string, status model.PartnershipStatus) (*model.Partnership, error)
	Delete(ctx context.Context, id string, expected model.PartnershipStatus) error
}

// Directory resolves an email to the identities registered under it.
type Directory interface {
	LookupByEmail(ctx context.Context, email string) ([]string, error)
}

// Profiles reads a user's profile for partner display.
type Profiles interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
}

const (
	ActionInvited   = "invited"
	ActionAccepted  = "accepted"
	ActionRejected  = "rejected"
	ActionCancelled = "cancelled"
	ActionDissolved = "dissolved"
)

// Event describes a completed transition.
type Event struct {
	Action       string
	Partnership  *model.Partnership
	ActorID      string
	InviteeEmail string
}

// Notifier is told about every completed transition. Delivery is best effort.
type Notifier interface {
	PartnershipChanged(ctx context.Context, ev Event)
}

type Service struct {
	store    Store
	dir      Directory
	profiles Profiles
	notifier Notifier
	logger   *slog.Logger

	mu        sync.RWMutex
	lastKnown map[string]knownOwners
}

type knownOwners struct {
	owners []string
	seen   time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(st Store, dir Directory, profiles Profiles, opts ...Option) *Service {
	s := &Service{
		store:     st,
		dir:       dir,
		profiles:  profiles,
		logger:    slog.Default(),
		lastKnown: make(map[string]knownOwners),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) notify(ctx context.Context, ev Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.PartnershipChanged(ctx, ev)
}

// Invite creates a pending partnership between inviterID and the account
// registered under inviteeEmail.
func (s *Service) Invite(ctx context.Context, inviterID, inviteeEmail string) (*model.Partnership, error) {
	email := strings.ToLower(strings.TrimSpace(inviteeEmail))
	if email == "" {
		return nil, ErrEmptyEmail
	}

	ids, err := s.dir.LookupByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup invitee: %w", err)
	}
	switch {
	case len(ids) == 0:
		return nil, ErrNotFound
	case len(ids) > 1:
		s.logger.Warn("email matches several accounts", "matches", len(ids))
		return nil, ErrAmbiguousEmail
	}
	inviteeID := ids[0]
	if inviteeID == inviterID {
		return nil, ErrSelfInvite
	}

	for _, id := range []string{inviterID, inviteeID} {
		active, err := s.store.GetActiveForUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("check active partnership: %w", err)
		}
		if active != nil {
			return nil, ErrAlreadyPartnered
		}
	}

	userA, userB := Canonical(inviterID, inviteeID)
	p, err := s.store.Create(ctx, userA, userB, inviterID)
	if errors.Is(err, store.ErrMemberActive) {
		return nil, ErrAlreadyPartnered
	}
	if err != nil {
		return nil, fmt.Errorf("create partnership: %w", err)
	}

	s.logger.Info("partnership invited", "partnership_id", p.ID, "inviter", inviterID, "invitee", inviteeID)
	s.notify(ctx, Event{Action: ActionInvited, Partnership: p, ActorID: inviterID, InviteeEmail: email})
	return p, nil
}

// Respond lets the invitee accept or reject a pending invitation. Answering an
// invitation that is no longer pending returns ErrAlreadyResponded and
// changes nothing.
func (s *Service) Respond(ctx context.Context, userID, partnershipID string, accept bool) (*model.Partnership, error) {
	p, err := s.store.GetByID(ctx, partnershipID)
	if err != nil {
		return nil, fmt.Errorf("get partnership: %w", err)
	}
	if p == nil {
		return nil, ErrNoPartnership
	}
	if !p.HasMember(userID) || p.InvitedBy == userID {
		return nil, ErrForbidden
	}
	if p.Status != model.PartnershipPending {
		return nil, ErrAlreadyResponded
	}

	status, action := model.PartnershipRejected, ActionRejected
	if accept {
		status, action = model.PartnershipAccepted, ActionAccepted
	}

	updated, err := s.store.Respond(ctx, p.ID, status)
	if errors.Is(err, store.ErrStatusChanged) {
		return nil, ErrAlreadyResponded
	}
	if err != nil {
		return nil, fmt.Errorf("respond to partnership: %w", err)
	}

	if accept {
		s.remember(updated.UserA, []string{updated.UserA, updated.UserB})
		s.remember(updated.UserB, []string{updated.UserB, updated.UserA})
	}

	s.logger.Info("partnership answered", "partnership_id", p.ID, "status", status)
	s.notify(ctx, Event{Action: action, Partnership: updated, ActorID: userID})
	return updated, nil
}

// Dissolve ends an accepted partnership. Either member may call it; the row
// is deleted.
func (s *Service) Dissolve(ctx context.Context, userID, partnershipID string) error {
	p, err := s.memberPartnership(ctx, userID, partnershipID)
	if err != nil {
		return err
	}
	if p.Status != model.PartnershipAccepted {
		return ErrNotAccepted
	}

	err = s.store.Delete(ctx, p.ID, model.PartnershipAccepted)
	if errors.Is(err, store.ErrStatusChanged) {
		return ErrNotAccepted
	}
	if err != nil {
		return fmt.Errorf("dissolve partnership: %w", err)
	}

	s.remember(p.UserA, []string{p.UserA})
	s.remember(p.UserB, []string{p.UserB})

	s.logger.Info("partnership dissolved", "partnership_id", p.ID, "by", userID)
	s.notify(ctx, Event{Action: ActionDissolved, Partnership: p, ActorID: userID})
	return nil
}

// Cancel withdraws a pending invitation. Only the inviter may cancel.
func (s *Service) Cancel(ctx context.Context, userID, partnershipID string) error {
	p, err := s.memberPartnership(ctx, userID, partnershipID)
	if err != nil {
		return err
	}
	if p.InvitedBy != userID {
		return ErrForbidden
	}
	if p.Status != model.PartnershipPending {
		return ErrAlreadyResponded
	}

	err = s.store.Delete(ctx, p.ID, model.PartnershipPending)
	if errors.Is(err, store.ErrStatusChanged) {
		return ErrAlreadyResponded
	}
	if err != nil {
		return fmt.Errorf("cancel partnership: %w", err)
	}

	s.logger.Info("partnership invitation cancelled", "partnership_id", p.ID)
	s.notify(ctx, Event{Action: ActionCancelled, Partnership: p, ActorID: userID})
	return nil
}

// Forget releases userID from any pending or accepted partnership ahead of
// account deletion. The other member sees a dissolve, or a cancelled
// invitation when the row was still pending.
func (s *Service) Forget(ctx context.Context, userID string) error {
	p, err := s.store.GetActiveForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get active partnership: %w", err)
	}

	s.mu.Lock()
	delete(s.lastKnown, userID)
	s.mu.Unlock()

	if p == nil {
		return nil
	}

	err = s.store.Delete(ctx, p.ID, p.Status)
	if err != nil && !errors.Is(err, store.ErrStatusChanged) {
		return fmt.Errorf("release partnership: %w", err)
	}
	if partner, ok := Partner(p, userID); ok {
		s.remember(partner, []string{partner})
	}

	action := ActionDissolved
	if p.Status == model.PartnershipPending {
		action = ActionCancelled
	}
	s.logger.Info("partnership released for deleted account", "partnership_id", p.ID, "user_id", userID, "action", action)
	s.notify(ctx, Event{Action: action, Partnership: p, ActorID: userID})
	return nil
}

func (s *Service) memberPartnership(ctx context.Context, userID, partnershipID string) (*model.Partnership, error) {
	p, err := s.store.GetByID(ctx, partnershipID)
	if err != nil {
		return nil, fmt.Errorf("get partnership: %w", err)
	}
	if p == nil {
		return nil, ErrNoPartnership
	}
	if !p.HasMember(userID) {
		return nil, ErrForbidden
	}
	return p, nil
}

// CurrentPartner returns the accepted partner of userID, if any.
func (s *Service) CurrentPartner(ctx context.Context, userID string) (string, bool, error) {
	p, err := s.store.GetActiveForUser(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("get active partnership: %w", err)
	}
	if StateFor(p, userID) != StateAccepted {
		return "", false, nil
	}
	partner, ok := Partner(p, userID)
	return partner, ok, nil
}

// StatusView is a user's partnership state together with the row and the
// other member's profile when there is one.
type StatusView struct {
	State          State              `json:"state"`
	Partnership    *model.Partnership `json:"partnership"`
	PartnerProfile *model.Profile     `json:"partner_profile"`
}

func (s *Service) Status(ctx context.Context, userID string) (*StatusView, error) {
	p, err := s.store.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get active partnership: %w", err)
	}
	view := &StatusView{State: StateFor(p, userID)}
	if view.State == StateNone {
		return view, nil
	}
	view.Partnership = p

	if partner, ok := Partner(p, userID); ok && s.profiles != nil {
		profile, err := s.profiles.Get(ctx, partner)
		if err != nil {
			return nil, fmt.Errorf("get partner profile: %w", err)
		}
		view.PartnerProfile = profile
	}
	return view, nil
}

// History lists every partnership the user has been part of, newest first.
// Dissolved and cancelled partnerships are deleted and do not appear.
func (s *Service) History(ctx context.Context, userID string) ([]model.Partnership, error) {
	list, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list partnerships: %w", err)
	}
	if list == nil {
		list = []model.Partnership{}
	}
	return list, nil
}

// OwnerSet returns the ids whose rows userID may see. If the lookup fails it
// falls back to the last owner-set computed for the user, or to the user
// alone.
func (s *Service) OwnerSet(ctx context.Context, userID string) []string {
	p, err := s.store.GetActiveForUser(ctx, userID)
	if err != nil {
		fallback := s.recall(userID)
		s.logger.Error("owner set lookup failed, using last known", "user_id", userID, "owners", len(fallback), "error", err)
		return fallback
	}
	owners := Owners(p, userID)
	s.remember(userID, owners)
	return owners
}

func (s *Service) remember(userID string, owners []string) {
	s.mu.Lock()
	s.lastKnown[userID] = knownOwners{owners: owners, seen: time.Now()}
	s.mu.Unlock()
}

func (s *Service) recall(userID string) []string {
	s.mu.RLock()
	known, ok := s.lastKnown[userID]
	s.mu.RUnlock()
	if !ok {
		return []string{userID}
	}
	return known.owners
}

// Prune drops remembered owner-sets not refreshed since cutoff and returns
// how many were removed.
func (s *Service) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, known := range s.lastKnown {
		if known.seen.Before(cutoff) {
			delete(s.lastKnown, id)
			n++
		}
	}
	return n
}
