// internal/domain/models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is the single administrative credential of one organization.
//
// OrganizationID is nil only between the admin insert and the
// organization insert during provisioning; once set it is never cleared.
type Admin struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	Email          string              `bson:"email" json:"email"` // lowercase, unique
	PasswordHash   string              `bson:"password_hash" json:"-"`
	OrganizationID *primitive.ObjectID `bson:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}
