// internal/domain/models/supplyitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupplyItem is a recurring supply an organization tracks for reordering.
type SupplyItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`

	// ReorderEveryDays is the reminder cadence. NextRemindAt is advanced by
	// this interval each time the item is marked ordered or a reminder is
	// sent.
	ReorderEveryDays int        `bson:"reorder_every_days" json:"reorder_every_days"`
	LastOrderedAt    *time.Time `bson:"last_ordered_at,omitempty" json:"last_ordered_at,omitempty"`
	NextRemindAt     time.Time  `bson:"next_remind_at" json:"next_remind_at"`

	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
