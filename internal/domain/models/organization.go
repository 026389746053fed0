// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is one tenant. CollectionName always names the live
// per-organization collection and is derived from OrganizationName.
type Organization struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationName string             `bson:"organization_name" json:"organization_name"` // trimmed, lowercase
	CollectionName   string             `bson:"collection_name" json:"collection_name"`
	AdminID          primitive.ObjectID `bson:"admin_id" json:"admin_id"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrganizationDetail is an Organization joined with its admin's email
// for display.
type OrganizationDetail struct {
	Organization
	AdminEmail string `json:"admin_email"`
}
