package partnership

import "errors"

var (
	ErrEmptyEmail       = errors.New("email is required")
	ErrNotFound         = errors.New("no account with that email")
	ErrAmbiguousEmail   = errors.New("more than one account has that email")
	ErrSelfInvite       = errors.New("you cannot invite yourself")
	ErrAlreadyPartnered = errors.New("already in a partnership")
	ErrNoPartnership    = errors.New("partnership not found")
	ErrForbidden        = errors.New("not allowed for this partnership")
	ErrAlreadyResponded = errors.New("invitation already answered")
	ErrNotAccepted      = errors.New("partnership is not accepted")
)
