// internal/domain/models/user.go
package models

import "time"

// User is a membership record in the directory.
//
// The document _id is the identity provider's subject identifier, not a
// Mongo ObjectID: user records are created only after the identity exists,
// and sharing the key keeps the two systems joined without a lookup table.
//
// OrganizationID is nil for unaffiliated accounts. Role is meaningful only
// while OrganizationID is set.
type User struct {
	ID             string  `bson:"_id" json:"id"`
	Email          string  `bson:"email" json:"email"`
	OrganizationID *string `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	Role           Role    `bson:"role,omitempty" json:"role,omitempty"`

	// Disabled mirrors the identity provider's disabled flag. It is
	// informational here; enforcement happens in the identity layer.
	Disabled bool `bson:"disabled" json:"disabled"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
