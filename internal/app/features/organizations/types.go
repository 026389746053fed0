// internal/app/features/organizations/types.go
package organizations

import (
	"strings"
	"time"

	"github.com/dalemusser/orgadmin/internal/app/system/inputval"
)

const msgNameRequired = "Organization name is required"

type createInput struct {
	OrganizationName string `json:"organization_name" form:"organization_name" validate:"required,min=2,max=50,orgname"`
	Email            string `json:"email" form:"email" validate:"required,email"`
	Password         string `json:"password" form:"password" validate:"required,min=6"`
}

func (in *createInput) trim() {
	in.OrganizationName = strings.TrimSpace(in.OrganizationName)
	in.Email = strings.TrimSpace(in.Email)
}

var createMessages = inputval.Messages{
	"organization_name.required": msgNameRequired,
	"organization_name.min":      "Organization name must be between 2 and 50 characters",
	"organization_name.max":      "Organization name must be between 2 and 50 characters",
	"organization_name.orgname":  inputval.OrgNameCharsMessage,
	"email.required":             "Email is required",
	"email.email":                "Invalid email format",
	"password.required":          "Password is required",
	"password.min":               "Password must be at least 6 characters long",
}

type updateInput struct {
	OrganizationName    string  `json:"organization_name" form:"organization_name" validate:"required"`
	Email               *string `json:"email" form:"email" validate:"omitnil,email"`
	Password            *string `json:"password" form:"password" validate:"omitnil,min=6"`
	NewOrganizationName *string `json:"new_organization_name" form:"new_organization_name" validate:"omitnil,min=2,max=50,orgname"`
}

func (in *updateInput) trim() {
	in.OrganizationName = strings.TrimSpace(in.OrganizationName)
	if in.Email != nil {
		s := strings.TrimSpace(*in.Email)
		in.Email = &s
	}
	if in.NewOrganizationName != nil {
		s := strings.TrimSpace(*in.NewOrganizationName)
		in.NewOrganizationName = &s
	}
}

var updateMessages = inputval.Messages{
	"organization_name.required":    "Current organization name is required",
	"email.email":                   "Invalid email format",
	"password.min":                  "Password must be at least 6 characters long",
	"new_organization_name.min":     "New organization name must be between 2 and 50 characters",
	"new_organization_name.max":     "New organization name must be between 2 and 50 characters",
	"new_organization_name.orgname": inputval.OrgNameCharsMessage,
}

// queryInput is the organization_name query parameter of get and delete.
type queryInput struct {
	OrganizationName string `json:"organization_name" validate:"required"`
}

var queryMessages = inputval.Messages{
	"organization_name.required": msgNameRequired,
}

type createdView struct {
	OrganizationName string    `json:"organizationName"`
	CollectionName   string    `json:"collectionName"`
	CreatedAt        time.Time `json:"createdAt"`
}

type detailView struct {
	OrganizationName string    `json:"organizationName"`
	CollectionName   string    `json:"collectionName"`
	AdminEmail       string    `json:"adminEmail"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type updatedView struct {
	OrganizationName string    `json:"organizationName"`
	CollectionName   string    `json:"collectionName"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
