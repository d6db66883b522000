// internal/app/membership/errors.go
package membership

import "errors"

// Rejection errors surfaced to callers. Every precondition failure maps to
// exactly one of these; the feature layer translates them to HTTP statuses.
var (
	// Caller standing
	ErrNotAMember       = errors.New("caller is not a member of the organization")
	ErrInsufficientRole = errors.New("caller role does not permit this action")

	// Referential integrity
	ErrOrgNotFound    = errors.New("organization not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoOrganization = errors.New("user has no organization")
	ErrMissingOrg     = errors.New("new owner has no organization")
	ErrOrgInvalid     = errors.New("new owner belongs to a different organization")

	// Business rules
	ErrSeatLimitReached  = errors.New("organization has reached its plan's seat limit")
	ErrUserAlreadyExists = errors.New("an account with this email already exists")

	// Invariant protection
	ErrCannotRemoveSelf   = errors.New("cannot remove your own account")
	ErrCannotRemoveOwner  = errors.New("cannot remove the organization owner")
	ErrCannotModifyOwner  = errors.New("the owner role can only change via ownership transfer")
	ErrMustRetainOneAdmin = errors.New("organization must retain at least one admin or owner")
	ErrAlreadyOwner       = errors.New("user is already the organization owner")

	// Setup-token flow
	ErrTokenExpired = errors.New("setup token has expired")
	ErrTokenInvalid = errors.New("setup token is invalid")

	// Input validation
	ErrInvalidRole = errors.New(`role must be "admin" or "member"`)
	ErrInvalidPlan = errors.New("unrecognized plan")
)
