package users

import (
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
)

// Sentinel errors for identity creation and lookup. Handlers compare with
// errors.Is, so wrapping and detail attachment keep these matchable.
var (
	// ErrConflictingIdentity is returned when a signup supplies both a
	// username and a facebook identity.
	ErrConflictingIdentity = pkgerrors.New(pkgerrors.CodeValidation, "username and facebook identity are mutually exclusive")

	// ErrMissingIdentity is returned when a signup supplies neither identity.
	ErrMissingIdentity = pkgerrors.New(pkgerrors.CodeValidation, "either username or facebook identity is required")

	// ErrMissingCredential is returned when a username signup omits the password.
	ErrMissingCredential = pkgerrors.New(pkgerrors.CodeValidation, "password is required for username accounts")

	// ErrPrivilegeInvariant is returned when superuser creation tries to
	// downgrade the staff or superuser flags.
	ErrPrivilegeInvariant = pkgerrors.New(pkgerrors.CodeValidation, "superusers must keep is_staff and is_superuser set")

	// ErrInconsistentIdentity flags a persisted user whose identity mode can
	// no longer be resolved. Should be unreachable while the creation
	// invariants hold.
	ErrInconsistentIdentity = pkgerrors.New(pkgerrors.CodeInternal, "user identity is unresolvable")

	ErrUsernameTaken = pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	ErrNicknameTaken = pkgerrors.New(pkgerrors.CodeConflict, "nickname already taken")
	ErrEmailTaken    = pkgerrors.New(pkgerrors.CodeConflict, "email already linked to another account")

	ErrUserNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
)
