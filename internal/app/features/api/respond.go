// internal/app/features/api/respond.go

// Package api holds the JSON response helpers shared by the feature
// packages: the {"success": true}/{"error": "..."} envelope, request-body
// decoding, and the mapping from engine errors to HTTP statuses.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/restok/internal/app/membership"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Success writes a 200 with {"success": true} plus any extra fields.
func Success(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Decode reads a JSON request body into dst, rejecting unknown fields and
// oversized bodies.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// EngineError writes an engine rejection as its HTTP equivalent. Unknown
// errors are logged by the caller and come back as a generic 500 so
// internal details never leak into responses.
func EngineError(w http.ResponseWriter, err error) {
	status, known := statusFor(err)
	if !known {
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	Error(w, status, err.Error())
}

// IsRejection reports whether err belongs to the engine's rejection
// taxonomy (a client-visible 4xx) rather than an internal failure.
func IsRejection(err error) bool {
	_, ok := statusFor(err)
	return ok
}

// statusFor maps the engine's error taxonomy to HTTP statuses. The second
// return is false for errors outside the taxonomy.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, membership.ErrNotAMember),
		errors.Is(err, membership.ErrInsufficientRole):
		return http.StatusForbidden, true

	case errors.Is(err, membership.ErrOrgNotFound),
		errors.Is(err, membership.ErrUserNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, membership.ErrSeatLimitReached),
		errors.Is(err, membership.ErrUserAlreadyExists),
		errors.Is(err, membership.ErrCannotRemoveSelf),
		errors.Is(err, membership.ErrCannotRemoveOwner),
		errors.Is(err, membership.ErrCannotModifyOwner),
		errors.Is(err, membership.ErrMustRetainOneAdmin),
		errors.Is(err, membership.ErrAlreadyOwner),
		errors.Is(err, membership.ErrNoOrganization),
		errors.Is(err, membership.ErrMissingOrg),
		errors.Is(err, membership.ErrOrgInvalid):
		return http.StatusConflict, true

	case errors.Is(err, membership.ErrInvalidRole),
		errors.Is(err, membership.ErrInvalidPlan),
		errors.Is(err, membership.ErrTokenInvalid):
		return http.StatusBadRequest, true

	case errors.Is(err, membership.ErrTokenExpired):
		return http.StatusGone, true
	}
	return 0, false
}
