// internal/domain/models/organization.go
package models

import "time"

// Organization is a tenant. By convention its _id equals the uid of the
// owner that created it (one organization per initial owner), so the id is
// a string rather than an ObjectID.
type Organization struct {
	ID      string `bson:"_id" json:"id"`
	OwnerID string `bson:"owner_id" json:"owner_id"`
	Plan    string `bson:"plan" json:"plan"`
	Name    string `bson:"name" json:"name"`
	NameCI  string `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
