package relationships

import (
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
)

// Sentinel errors for graph operations. Each signals a caller-supplied
// precondition violation; none are retried internally.
var (
	// ErrSelfReference rejects any edge from a user to themselves.
	ErrSelfReference = pkgerrors.New(pkgerrors.CodeValidation, "source and target must differ")

	// ErrDuplicateInvitation is raised off the pair unique constraint, not a
	// pre-check, so concurrent invites serialize on the index.
	ErrDuplicateInvitation = pkgerrors.New(pkgerrors.CodeConflict, "invitation already exists for this pair")

	// ErrDuplicateReport mirrors the invitation behavior for reports.
	ErrDuplicateReport = pkgerrors.New(pkgerrors.CodeConflict, "report already filed for this pair")

	// ErrInvalidTransition is returned when accept/decline find no pending
	// invitation to act on.
	ErrInvalidTransition = pkgerrors.New(pkgerrors.CodeStateConflict, "no pending invitation for this pair")

	// ErrUserNotFound covers missing or deactivated endpoints.
	ErrUserNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "user not found")

	// ErrFriendshipNotFound is returned when unfriending a pair that holds no
	// friendship edge.
	ErrFriendshipNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "friendship not found")
)
