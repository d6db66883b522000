// internal/app/system/plans/plans.go

// Package plans is the static catalog mapping subscription plans to seat
// limits. It holds no state; plan assignment lives on the Organization
// record and is mutated by billing events or administrative override.
package plans

import "strings"

// Plan identifiers as stored on Organization.Plan and carried in billing
// subscription metadata.
const (
	Basic      = "basic"
	Pro        = "pro"
	Premium    = "premium"
	Enterprise = "enterprise"
)

// SeatLimit is a plan's creatable/invitable member allowance. Unlimited
// plans are represented by the flag, never by a sentinel count, so callers
// cannot accidentally compare against a magic number.
type SeatLimit struct {
	Seats     int
	Unlimited bool
}

// Allows reports whether an organization with current member count n may
// add one more member.
func (l SeatLimit) Allows(n int64) bool {
	return l.Unlimited || n < int64(l.Seats)
}

var table = map[string]SeatLimit{
	Basic:      {Seats: 1},
	Pro:        {Seats: 5},
	Premium:    {Unlimited: true},
	Enterprise: {Unlimited: true},
}

// Limit resolves a plan name (case-insensitive) to its seat limit.
// Unrecognized plans fall back to basic's limit.
func Limit(plan string) SeatLimit {
	if l, ok := table[strings.ToLower(strings.TrimSpace(plan))]; ok {
		return l
	}
	return table[Basic]
}

// Valid reports whether the plan name is in the catalog.
func Valid(plan string) bool {
	_, ok := table[strings.ToLower(strings.TrimSpace(plan))]
	return ok
}
