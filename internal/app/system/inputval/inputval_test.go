package inputval

import (
	"testing"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/go-playground/validator/v10"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"  padded@example.com  ", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"user @example.com", false},
		{"User Name <user@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidOrgName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Acme Corp", true},
		{"acme_corp-2", true},
		{"  ab  ", true},
		{"a", false},
		{"", false},
		{"Acme & Co", false},
		{"Acme.Corp", false},
		{"12345678901234567890123456789012345678901234567890", true},
		{"123456789012345678901234567890123456789012345678901", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidOrgName(tt.name); got != tt.want {
				t.Errorf("IsValidOrgName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

type createInput struct {
	OrganizationName string  `json:"organization_name" validate:"required,min=2,max=50,orgname"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=6"`
	Nickname         *string `json:"nickname,omitempty" validate:"omitnil,min=2"`
}

func TestStruct(t *testing.T) {
	msgs := Messages{
		"organization_name.required": "Organization name is required",
		"password.min":               "Password must be at least 6 characters long",
	}
	empty := ""

	tests := []struct {
		name   string
		in     createInput
		fields map[string]string
	}{
		{
			name: "valid",
			in:   createInput{OrganizationName: "Acme", Email: "a@b.com", Password: "secret1"},
		},
		{
			name: "all missing",
			in:   createInput{},
			fields: map[string]string{
				"organization_name": "Organization name is required",
				"email":             "email is required",
				"password":          "password is required",
			},
		},
		{
			name: "bad values",
			in:   createInput{OrganizationName: "Acme!", Email: "nope", Password: "123"},
			fields: map[string]string{
				"organization_name": OrgNameCharsMessage,
				"email":             "Invalid email format",
				"password":          "Password must be at least 6 characters long",
			},
		},
		{
			name:   "present but empty optional",
			in:     createInput{OrganizationName: "Acme", Email: "a@b.com", Password: "secret1", Nickname: &empty},
			fields: map[string]string{"nickname": "nickname must be at least 2 characters long"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in, msgs)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if apperr.MessageOf(err) != FailedMessage {
				t.Errorf("message = %q", apperr.MessageOf(err))
			}
			got := map[string]string{}
			for _, d := range apperr.DetailsOf(err) {
				got[d.Field] = d.Message
			}
			if len(got) != len(tt.fields) {
				t.Errorf("details = %v, want %v", got, tt.fields)
			}
			for field, msg := range tt.fields {
				if got[field] != msg {
					t.Errorf("%s: got %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestMustRegister(t *testing.T) {
	always := func(validator.FieldLevel) bool { return true }

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an empty tag")
		}
	}()
	mustRegister(validator.New(), "", always)
}

func TestMustRegister_Registers(t *testing.T) {
	v := validator.New()
	mustRegister(v, "never", func(validator.FieldLevel) bool { return false })
	if err := v.Var("x", "never"); err == nil {
		t.Error("expected the registered rule to run")
	}
}
